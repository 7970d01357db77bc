package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/hangman/apps/go-server/internal/history"
	"github.com/robalobadob/hangman/apps/go-server/internal/session"
	"github.com/robalobadob/hangman/apps/go-server/internal/store"
	"github.com/robalobadob/hangman/apps/go-server/internal/words"
)

// fakeHistory is an in-memory History.
type fakeHistory struct {
	sum       history.Summary
	recent    []history.Result
	err       error
	lastLimit int
}

func (f *fakeHistory) Summary(context.Context) (history.Summary, error) { return f.sum, f.err }

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]history.Result, error) {
	f.lastLimit = limit
	return f.recent, f.err
}

type harness struct {
	srv     *Server
	history *fakeHistory
}

func newHarness(t *testing.T, entries []words.Entry, staticDir string) *harness {
	t.Helper()
	bank := words.NewBank(entries, rand.New(rand.NewSource(1)))
	h := &fakeHistory{}
	mgr := session.NewManager(bank, store.NewMemoryStore(), nil)
	nop := zerolog.Nop()
	return &harness{
		srv:     New(mgr, h, bank, Options{StaticDir: staticDir, Logger: &nop}),
		history: h,
	}
}

func catEntries() []words.Entry {
	return []words.Entry{{Question: "pet?", Word: "CAT", Hint: "meows", Difficulty: "easy"}}
}

func (h *harness) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	h := newHarness(t, catEntries(), t.TempDir())
	rec, body := h.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
}

func TestStart(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		turns string
	}{
		{"hard", `{"difficulty":"hard"}`, "8 turns left"},
		{"default medium", `{}`, "10 turns left"},
		{"empty body", ``, "10 turns left"},
		{"malformed body", `{`, "10 turns left"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, catEntries(), t.TempDir())
			rec, body := h.do(t, http.MethodPost, "/start", tt.body)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "pet?", body["question"])
			assert.Equal(t, "_ _ _", body["word"])
			assert.Equal(t, tt.turns, body["turns"])
			assert.Equal(t, float64(0), body["stage"])
			assert.Equal(t, "Guess a letter!", body["feedback"])
			assert.Equal(t, false, body["game_over"])
			assert.Equal(t, "Use a hint to reveal more!", body["hint"])
		})
	}
}

func TestStart_EmptyBank(t *testing.T) {
	h := newHarness(t, nil, t.TempDir())
	rec, body := h.do(t, http.MethodPost, "/start", `{"difficulty":"easy"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, body["error"], "Failed to start game")
}

func TestNoActiveSession(t *testing.T) {
	h := newHarness(t, catEntries(), t.TempDir())
	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/guess", `{"letter":"a"}`},
		{http.MethodPost, "/hint", ``},
		{http.MethodGet, "/state", ``},
	} {
		t.Run(tc.path, func(t *testing.T) {
			rec, body := h.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Start a new game!", body["error"])
		})
	}
}

func TestPlayToWin(t *testing.T) {
	h := newHarness(t, catEntries(), t.TempDir())
	h.do(t, http.MethodPost, "/start", `{"difficulty":"easy"}`)

	_, body := h.do(t, http.MethodPost, "/guess", `{"letter":"c"}`)
	assert.Equal(t, "Correct guess!", body["feedback"])
	assert.Equal(t, "C _ _", body["word"])

	_, body = h.do(t, http.MethodPost, "/guess", `{"letter":"x"}`)
	assert.Equal(t, "Wrong guess!", body["feedback"])
	assert.Equal(t, "9 turns left", body["turns"])
	assert.Equal(t, float64(1), body["stage"])

	_, body = h.do(t, http.MethodPost, "/guess", `{"letter":"12"}`)
	assert.Equal(t, "Please enter a single letter.", body["feedback"])

	_, body = h.do(t, http.MethodPost, "/hint", ``)
	assert.Equal(t, "Hint revealed: meows", body["feedback"])
	assert.Equal(t, "meows", body["hint"])

	h.do(t, http.MethodPost, "/guess", `{"letter":"a"}`)
	rec, body := h.do(t, http.MethodPost, "/guess", `{"letter":"t"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["game_over"])
	assert.Equal(t, "Congratulations, you win!", body["message"])

	_, body = h.do(t, http.MethodGet, "/state", ``)
	assert.Equal(t, "C A T", body["word"])
	assert.Equal(t, true, body["game_over"])
}

func TestGuess_BadJSON(t *testing.T) {
	h := newHarness(t, catEntries(), t.TempDir())
	h.do(t, http.MethodPost, "/start", `{}`)
	rec, body := h.do(t, http.MethodPost, "/guess", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_json", body["error"])
}

func TestCORS(t *testing.T) {
	h := newHarness(t, catEntries(), t.TempDir())

	rec, _ := h.do(t, http.MethodOptions, "/start", ``)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))

	rec, _ = h.do(t, http.MethodGet, "/health", ``)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNotFound(t *testing.T) {
	h := newHarness(t, catEntries(), t.TempDir())
	rec, body := h.do(t, http.MethodGet, "/nope", ``)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body["error"])
	assert.Equal(t, "/nope", body["path"])
}

func TestStatsAndRecent(t *testing.T) {
	h := newHarness(t, catEntries(), t.TempDir())
	h.history.sum = history.Summary{Played: 3, Wins: 2, Losses: 1}
	h.history.recent = []history.Result{{GameID: "g1", Word: "CAT", Won: true}}

	rec, body := h.do(t, http.MethodGet, "/stats", ``)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), body["played"])
	assert.Equal(t, float64(2), body["wins"])
	assert.Equal(t, float64(1), body["losses"])

	req := httptest.NewRequest(http.MethodGet, "/games/recent?limit=5", nil)
	rr := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var games []history.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &games))
	require.Len(t, games, 1)
	assert.Equal(t, "g1", games[0].GameID)
	assert.Equal(t, 5, h.history.lastLimit)

	rec, _ = h.do(t, http.MethodGet, "/games/recent?limit=0", ``)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h.history.err = errors.New("db down")
	rec, body = h.do(t, http.MethodGet, "/stats", ``)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "db_error", body["error"])
}

func TestStats_HistoryDisabled(t *testing.T) {
	bank := words.NewBank(catEntries(), nil)
	srv := New(session.NewManager(bank, store.NewMemoryStore(), nil), nil, bank, Options{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "history_disabled")
}

func TestDebugWords(t *testing.T) {
	h := newHarness(t, catEntries(), t.TempDir())
	_, body := h.do(t, http.MethodGet, "/debug/words", ``)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, map[string]any{"easy": float64(1), "medium": float64(0), "hard": float64(0)}, body["byDifficulty"])
}

func TestStaticAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sounds"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sounds", "win.mp3"), []byte("ID3"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "stage1.png"), []byte("PNG"), 0o644))
	h := newHarness(t, catEntries(), dir)

	rec, _ := h.do(t, http.MethodGet, "/static/sounds/win.mp3", ``)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
	assert.Equal(t, "public, max-age=0", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "ID3", rec.Body.String())

	rec, _ = h.do(t, http.MethodGet, "/static/images/stage1.png", ``)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec, _ = h.do(t, http.MethodGet, "/static/images/missing.png", ``)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = h.do(t, http.MethodGet, "/static/sounds/", ``)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
