// internal/history/store.go
//
// Log of finished hangman games, stored in the games table.
// Live sessions are never read back from here; this only feeds /stats and
// /games/recent.

package history

import (
	"context"
	"database/sql"
	"time"
)

// DefaultLimit is the page size for Recent when none is given.
const DefaultLimit = 20

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Result is one finished game.
type Result struct {
	GameID     string    `json:"gameId"`
	Difficulty string    `json:"difficulty"`
	Word       string    `json:"word"`
	Won        bool      `json:"won"`
	TurnsLeft  int       `json:"turnsLeft"`
	HintsUsed  int       `json:"hintsUsed"`
	Guesses    int       `json:"guesses"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Summary aggregates all recorded games.
type Summary struct {
	Played int `json:"played"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts a finished game. A game id already present is ignored.
func (s *Store) Record(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO games(id, difficulty, word, won, turns_left, hints_used, guesses, started_at, finished_at)
VALUES(?,?,?,?,?,?,?,?,?)`,
		r.GameID, r.Difficulty, r.Word, r.Won, r.TurnsLeft, r.HintsUsed, r.Guesses,
		r.StartedAt.UTC().Format(timeLayout), r.FinishedAt.UTC().Format(timeLayout),
	)
	return err
}

func (s *Store) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(won), 0) FROM games`,
	).Scan(&sum.Played, &sum.Wins)
	if err != nil {
		return Summary{}, err
	}
	sum.Losses = sum.Played - sum.Wins
	return sum, nil
}

// Recent returns the latest finished games, newest first.
// Games with the same finish time come back in reverse insertion order.
func (s *Store) Recent(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, difficulty, word, won, turns_left, hints_used, guesses, started_at, finished_at
FROM games
ORDER BY finished_at DESC, rowid DESC
LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var r Result
		var started, finished string
		if err := rows.Scan(&r.GameID, &r.Difficulty, &r.Word, &r.Won, &r.TurnsLeft, &r.HintsUsed, &r.Guesses, &started, &finished); err != nil {
			return nil, err
		}
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// parseTime parses RFC3339 timestamps, with or without fractional
// seconds; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
