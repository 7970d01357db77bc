// internal/game/types.go
//
// Core type definitions for the hangman game engine.
// Defines:
//   - Session: state for a single in-progress or finished game.
//   - Snapshot: the display view of a session sent to clients.

package game

import "time"

// Turn and hint budgets.
const (
	DefaultTurns = 10
	HardTurns    = 8
	MaxStage     = 10
	MaxHints     = 2
)

// Player-facing feedback and status messages.
const (
	MsgInvalidLetter   = "Please enter a single letter."
	MsgAlreadyGuessed  = "You already guessed that letter."
	MsgWrongGuess      = "Wrong guess!"
	MsgCorrectGuess    = "Correct guess!"
	MsgNotEnoughTurns  = "Not enough turns to use a hint!"
	MsgNoHintsLeft     = "No hints left!"
	MsgHintRevealed    = "Hint revealed: "
	MsgHintPlaceholder = "Use a hint to reveal more!"
	MsgWin             = "Congratulations, you win!"
	MsgLoseFormat      = "You lose! The answer was %s."
	MsgTurnsLeftFormat = "%d turns left"
)

// Placeholder shown for an unguessed letter in the masked word.
const Placeholder = "_"

// Session holds the state of a single hangman game.
// Question, Word and Hint are fixed at creation.
type Session struct {
	ID         string            // Unique session identifier (uuid).
	Difficulty string            // Requested difficulty, lowercased.
	Question   string            // Clue shown to the player.
	Word       string            // The target word (always uppercase).
	Hint       string            // Revealed once a hint is used.
	Guessed    map[rune]struct{} // Guessed letters (uppercase); only grows.
	TurnsLeft  int               // Never increases, floored at 0.
	StartTurns int               // TurnsLeft at creation.
	HintsUsed  int               // Capped at MaxHints.
	MaxHints   int
	Guesses    int // Accepted, non-duplicate letters.
	StartedAt  time.Time
}

// Snapshot is the client view of a session.
type Snapshot struct {
	Question string `json:"question"`
	Word     string `json:"word"`  // masked word, e.g. "C _ _"
	Turns    string `json:"turns"` // "<N> turns left"
	Stage    int    `json:"stage"`
	Hint     string `json:"hint"`
	GameOver bool   `json:"game_over"`
	Message  string `json:"message"`
}
