package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resultColumns = []string{"id", "difficulty", "word", "won", "turns_left", "hints_used", "guesses", "started_at", "finished_at"}

func TestStore_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	started := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	finished := started.Add(3*time.Minute + 250*time.Millisecond)

	mock.ExpectExec("INSERT OR IGNORE INTO games").
		WithArgs("g1", "hard", "CAT", true, 6, 1, 4, "2026-10-19T12:00:00.000000000Z", "2026-10-19T12:03:00.250000000Z").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewStore(db).Record(context.Background(), Result{
		GameID: "g1", Difficulty: "hard", Word: "CAT", Won: true,
		TurnsLeft: 6, HintsUsed: 1, Guesses: 4,
		StartedAt: started, FinishedAt: finished,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Summary(t *testing.T) {
	tests := []struct {
		name      string
		rows      *sqlmock.Rows
		queryErr  error
		want      Summary
		expectErr bool
	}{
		{
			name: "mixed results",
			rows: sqlmock.NewRows([]string{"count", "wins"}).AddRow(5, 3),
			want: Summary{Played: 5, Wins: 3, Losses: 2},
		},
		{
			name: "no games",
			rows: sqlmock.NewRows([]string{"count", "wins"}).AddRow(0, 0),
			want: Summary{},
		},
		{
			name:      "query error",
			queryErr:  errors.New("db down"),
			expectErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			q := mock.ExpectQuery("SELECT COUNT")
			if tt.queryErr != nil {
				q.WillReturnError(tt.queryErr)
			} else {
				q.WillReturnRows(tt.rows)
			}

			got, err := NewStore(db).Summary(context.Background())
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_Recent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`ORDER BY finished_at DESC, rowid DESC`).
		WithArgs(DefaultLimit).
		WillReturnRows(sqlmock.NewRows(resultColumns).
			AddRow("g2", "easy", "DOG", false, 0, 2, 12, "2026-10-19T12:00:00Z", "2026-10-19T12:05:00.500000000Z").
			AddRow("g1", "hard", "CAT", true, 6, 0, 3, "2026-10-19T11:00:00Z", "bad-time"))

	got, err := NewStore(db).Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "g2", got[0].GameID)
	assert.False(t, got[0].Won)
	assert.Equal(t, 12, got[0].Guesses)
	assert.Equal(t, time.Date(2026, 10, 19, 12, 5, 0, 500_000_000, time.UTC), got[0].FinishedAt)
	assert.Equal(t, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), got[0].StartedAt)

	assert.True(t, got[1].Won)
	assert.True(t, got[1].FinishedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecentScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, difficulty, word").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("g1"))

	_, err = NewStore(db).Recent(context.Background(), 5)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
