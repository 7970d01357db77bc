// internal/game/engine.go
//
// Core game engine for a single hangman session.
// Responsibilities:
//   - Create new sessions from a word picker (10 turns, 8 on "hard").
//   - Validate and apply letter guesses.
//   - Grant hints, each costing one turn, at most MaxHints per session.
//   - Report the masked word, turns, stage, hint and win/loss state.
//
// Notes:
//   - Stage is never stored. It is 0 until the first turn is spent,
//     then clamp(MaxStage - TurnsLeft, 0, MaxStage).
//   - Loss is checked before win.
//   - Invalid input is a normal (false, message) result, not an error.
package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/hangman/apps/go-server/internal/words"
)

// Picker supplies a word entry for a difficulty. *words.Bank implements it.
type Picker interface {
	Select(difficulty string) (words.Entry, error)
}

// New constructs a new session for difficulty.
// Returns words.ErrEmptyWordBank when the picker has nothing to offer.
func New(p Picker, difficulty string) (*Session, error) {
	difficulty = strings.ToLower(difficulty)
	e, err := p.Select(difficulty)
	if err != nil {
		return nil, err
	}
	turns := DefaultTurns
	if difficulty == string(words.Hard) {
		turns = HardTurns
	}
	return &Session{
		ID:         uuid.NewString(),
		Difficulty: difficulty,
		Question:   e.Question,
		Word:       strings.ToUpper(e.Word),
		Hint:       e.Hint,
		Guessed:    make(map[rune]struct{}),
		TurnsLeft:  turns,
		StartTurns: turns,
		MaxHints:   MaxHints,
		StartedAt:  time.Now().UTC(),
	}, nil
}

// Guess applies a single letter guess.
// Returns accepted=true only for a new letter present in the word.
func (s *Session) Guess(letter string) (bool, string) {
	r, ok := normalizeLetter(letter)
	if !ok {
		return false, MsgInvalidLetter
	}
	if _, dup := s.Guessed[r]; dup {
		return false, MsgAlreadyGuessed
	}

	s.Guessed[r] = struct{}{}
	s.Guesses++
	if !strings.ContainsRune(s.Word, r) {
		s.spendTurn()
		return false, MsgWrongGuess
	}
	return true, MsgCorrectGuess
}

// UseHint reveals the hint at the cost of one turn.
// Refused when it would leave no turns, or when the hint budget is spent.
func (s *Session) UseHint() (bool, string) {
	if s.TurnsLeft <= 1 {
		return false, MsgNotEnoughTurns
	}
	if s.HintsUsed >= s.MaxHints {
		return false, MsgNoHintsLeft
	}
	s.HintsUsed++
	s.spendTurn()
	return true, MsgHintRevealed + s.Hint
}

// spendTurn decrements TurnsLeft without going below zero.
func (s *Session) spendTurn() {
	if s.TurnsLeft > 0 {
		s.TurnsLeft--
	}
}

// Stage is 0 until a turn has been spent, then
// clamp(MaxStage - TurnsLeft, 0, MaxStage). A hard game therefore
// jumps from 0 to 3 on its first miss or hint.
func (s *Session) Stage() int {
	if s.TurnsLeft >= s.StartTurns {
		return 0
	}
	st := MaxStage - s.TurnsLeft
	if st < 0 {
		return 0
	}
	if st > MaxStage {
		return MaxStage
	}
	return st
}

// MaskedWord renders the word with unguessed letters replaced by Placeholder,
// letters separated by single spaces.
func (s *Session) MaskedWord() string {
	parts := make([]string, 0, len(s.Word))
	for _, r := range s.Word {
		if _, ok := s.Guessed[r]; ok {
			parts = append(parts, string(r))
		} else {
			parts = append(parts, Placeholder)
		}
	}
	return strings.Join(parts, " ")
}

// TurnsLeftDisplay formats the remaining turns.
func (s *Session) TurnsLeftDisplay() string {
	return fmt.Sprintf(MsgTurnsLeftFormat, s.TurnsLeft)
}

// HintDisplay returns the hint once one has been used, else a prompt.
func (s *Session) HintDisplay() string {
	if s.HintsUsed > 0 {
		return s.Hint
	}
	return MsgHintPlaceholder
}

// IsGameOver evaluates the terminal condition. Loss takes priority over win.
func (s *Session) IsGameOver() (bool, string) {
	if s.TurnsLeft <= 0 {
		return true, fmt.Sprintf(MsgLoseFormat, s.Word)
	}
	if s.solved() {
		return true, MsgWin
	}
	return false, ""
}

// State reports "playing", "won" or "lost".
func (s *Session) State() string {
	if s.TurnsLeft <= 0 {
		return "lost"
	}
	if s.solved() {
		return "won"
	}
	return "playing"
}

// Snapshot returns the client view of the session.
func (s *Session) Snapshot() Snapshot {
	over, msg := s.IsGameOver()
	return Snapshot{
		Question: s.Question,
		Word:     s.MaskedWord(),
		Turns:    s.TurnsLeftDisplay(),
		Stage:    s.Stage(),
		Hint:     s.HintDisplay(),
		GameOver: over,
		Message:  msg,
	}
}

// solved reports whether every letter of the word has been guessed.
func (s *Session) solved() bool {
	for _, r := range s.Word {
		if _, ok := s.Guessed[r]; !ok {
			return false
		}
	}
	return true
}

// normalizeLetter uppercases in and checks it is exactly one letter A–Z.
func normalizeLetter(in string) (rune, bool) {
	rs := []rune(strings.ToUpper(in))
	if len(rs) != 1 || rs[0] < 'A' || rs[0] > 'Z' {
		return 0, false
	}
	return rs[0], true
}
