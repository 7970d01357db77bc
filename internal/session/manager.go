// internal/session/manager.go
//
// Game operations exposed to the HTTP layer: start, guess, hint, status.
//
// The manager owns the lifecycle rule "starting replaces the previous game":
// every operation targets one slot in the session store. When a guess or
// hint moves a session from playing to won/lost, the result is handed to the
// Recorder once; recording is best effort and never fails the request.

package session

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/apps/go-server/internal/game"
	"github.com/robalobadob/hangman/apps/go-server/internal/history"
	"github.com/robalobadob/hangman/apps/go-server/internal/store"
)

// DefaultSlot is the store key of the single live session.
const DefaultSlot = "default"

// StartFeedback is the feedback sent with a freshly started game.
const StartFeedback = "Guess a letter!"

// ErrNoActiveSession is returned by Guess, Hint and Status before any Start.
var ErrNoActiveSession = errors.New("session: no active session")

// Recorder persists finished games. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, r history.Result) error
}

// Outcome is the result of an operation: whether it was accepted/granted,
// the feedback line, and the session view afterwards.
type Outcome struct {
	OK       bool
	Feedback string
	Snapshot game.Snapshot
}

// Manager runs game operations against a store slot.
type Manager struct {
	picker   game.Picker
	store    store.Store
	recorder Recorder // optional
	slot     string
	now      func() time.Time
}

// NewManager builds a Manager. recorder may be nil to disable history.
func NewManager(p game.Picker, st store.Store, rec Recorder) *Manager {
	return &Manager{
		picker:   p,
		store:    st,
		recorder: rec,
		slot:     DefaultSlot,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start creates a new game for difficulty and replaces the current one.
func (m *Manager) Start(ctx context.Context, difficulty string) (Outcome, error) {
	s, err := game.New(m.picker, difficulty)
	if err != nil {
		return Outcome{}, err
	}
	// s is shared once it is in the store; read it before that.
	out := Outcome{OK: true, Feedback: StartFeedback, Snapshot: s.Snapshot()}
	logger := log.Ctx(ctx).With().
		Str("gameId", s.ID).
		Str("difficulty", s.Difficulty).
		Int("turns", s.TurnsLeft).
		Logger()
	if err := m.store.Put(ctx, m.slot, s); err != nil {
		return Outcome{}, err
	}
	logger.Info().Msg("game started")
	return out, nil
}

// Guess applies a letter guess to the current game.
func (m *Manager) Guess(ctx context.Context, letter string) (Outcome, error) {
	return m.apply(ctx, func(s *game.Session) (bool, string) { return s.Guess(letter) })
}

// Hint spends a turn to reveal the current game's hint.
func (m *Manager) Hint(ctx context.Context) (Outcome, error) {
	return m.apply(ctx, (*game.Session).UseHint)
}

// Status returns the current game's view without changing it.
func (m *Manager) Status(ctx context.Context) (game.Snapshot, error) {
	var snap game.Snapshot
	err := m.store.View(ctx, m.slot, func(s *game.Session) error {
		snap = s.Snapshot()
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return game.Snapshot{}, ErrNoActiveSession
	}
	return snap, err
}

// apply runs op under the store's exclusive access and records the game
// if op finished it.
func (m *Manager) apply(ctx context.Context, op func(*game.Session) (bool, string)) (Outcome, error) {
	var (
		out      Outcome
		finished *history.Result
	)
	err := m.store.Update(ctx, m.slot, func(s *game.Session) error {
		wasOver, _ := s.IsGameOver()
		out.OK, out.Feedback = op(s)
		out.Snapshot = s.Snapshot()
		if !wasOver && out.Snapshot.GameOver {
			r := m.resultOf(s)
			finished = &r
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return Outcome{}, ErrNoActiveSession
	}
	if err != nil {
		return Outcome{}, err
	}
	if finished != nil {
		m.record(ctx, *finished)
	}
	return out, nil
}

func (m *Manager) resultOf(s *game.Session) history.Result {
	return history.Result{
		GameID:     s.ID,
		Difficulty: s.Difficulty,
		Word:       s.Word,
		Won:        s.State() == "won",
		TurnsLeft:  s.TurnsLeft,
		HintsUsed:  s.HintsUsed,
		Guesses:    s.Guesses,
		StartedAt:  s.StartedAt,
		FinishedAt: m.now(),
	}
}

func (m *Manager) record(ctx context.Context, r history.Result) {
	logger := log.Ctx(ctx)
	logger.Info().
		Str("gameId", r.GameID).
		Bool("won", r.Won).
		Int("guesses", r.Guesses).
		Int("hintsUsed", r.HintsUsed).
		Msg("game finished")
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Record(ctx, r); err != nil {
		logger.Warn().Err(err).Str("gameId", r.GameID).Msg("record game")
	}
}
