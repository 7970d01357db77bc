// internal/httpserver/server.go
//
// HTTP server wiring for the hangman backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, CORS, timeouts, panic recovery).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: POST /start, POST /guess, POST /hint, GET /state.
//   - History endpoints: GET /stats, GET /games/recent (when a history store is configured).
//   - Static sounds/images: mounted under /static (see routes_static.go).
//
// Notes:
//   - The game endpoints always answer with the session snapshot plus a feedback line.
//   - Guess/hint/state before any start answer 400 {"error":"Start a new game!"}.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/apps/go-server/internal/game"
	"github.com/robalobadob/hangman/apps/go-server/internal/history"
	"github.com/robalobadob/hangman/apps/go-server/internal/session"
)

// Game runs the hangman operations. *session.Manager implements it.
type Game interface {
	Start(ctx context.Context, difficulty string) (session.Outcome, error)
	Guess(ctx context.Context, letter string) (session.Outcome, error)
	Hint(ctx context.Context) (session.Outcome, error)
	Status(ctx context.Context) (game.Snapshot, error)
}

// History reads finished games. *history.Store implements it.
type History interface {
	Summary(ctx context.Context) (history.Summary, error)
	Recent(ctx context.Context, limit int) ([]history.Result, error)
}

// WordStats reports loaded word counts. *words.Bank implements it.
type WordStats interface {
	Len() int
	Counts() map[string]int
}

// Options configure a Server. Zero values fall back to defaults.
type Options struct {
	CORSOrigin     string        // default "*"
	RequestTimeout time.Duration // default 10s
	StaticDir      string        // default "static"
	Logger         *zerolog.Logger
}

// Server bundles router, game operations and optional history.
type Server struct {
	r       *chi.Mux
	game    Game
	history History // nil when history is disabled
	words   WordStats
}

// New constructs a Server, installs middleware, and registers routes.
func New(g Game, h History, ws WordStats, opts Options) *Server {
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.StaticDir == "" {
		opts.StaticDir = "static"
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	s := &Server{r: chi.NewRouter(), game: g, history: h, words: ws}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(logger))            // per-request logger in context
	s.r.Use(requestIDLogger)                    // tag it with the chi request id
	s.r.Use(accessLog())                        // one debug line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(cors(opts.CORSOrigin))              // preflight + allow headers

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "hangman-go",
			"endpoints": []string{"/health", "POST /start", "POST /guess", "POST /hint", "/state", "/stats", "/games/recent"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// --- game ---
	s.r.Post("/start", s.handleStart)
	s.r.Post("/guess", s.handleGuess)
	s.r.Post("/hint", s.handleHint)
	s.r.Get("/state", s.handleState)

	// --- history ---
	s.r.Get("/stats", s.handleStats)
	s.r.Get("/games/recent", s.handleRecent)

	// --- static assets ---
	s.mountStatic(opts.StaticDir)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	// Debug: word list counts
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"total": s.words.Len(), "byDifficulty": s.words.Counts()})
	})

	return s
}

// Handler exposes the router, for http.Server and tests.
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// requestIDLogger adds chi's request id to the hlog request logger.
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			l := zerolog.Ctx(r.Context())
			l.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("requestId", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog logs method, path, status and duration at debug level.
func accessLog() func(http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})
}

// cors answers preflight requests and sets allow headers on every response.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin != "*" {
				w.Header().Set("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ GAME ---------------------------------------

// startReq/guessReq payloads for POST /start and POST /guess.
type startReq struct {
	Difficulty string `json:"difficulty"`
}
type guessReq struct {
	Letter string `json:"letter"`
}

// gameRes is the response of every game endpoint.
type gameRes struct {
	game.Snapshot
	Feedback string `json:"feedback"`
}

// errNoGame is the client message for guess/hint/state without a game.
const errNoGame = "Start a new game!"

// handleStart creates a new game, replacing the current one.
// A missing or malformed body starts a "medium" game.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	req := startReq{Difficulty: "medium"}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}

	out, err := s.game.Start(r.Context(), req.Difficulty)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("difficulty", req.Difficulty).Msg("start game")
		writeError(w, http.StatusInternalServerError, "Failed to start game: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, gameRes{Snapshot: out.Snapshot, Feedback: out.Feedback})
}

// handleGuess applies a letter guess. Invalid letters are a normal 200
// response with feedback, not an error.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	out, err := s.game.Guess(r.Context(), req.Letter)
	s.writeOutcome(w, r, out, err)
}

// handleHint spends a turn to reveal the hint.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	out, err := s.game.Hint(r.Context())
	s.writeOutcome(w, r, out, err)
}

// handleState returns the current snapshot without changing the game.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.game.Status(r.Context())
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gameRes{Snapshot: snap})
}

func (s *Server) writeOutcome(w http.ResponseWriter, r *http.Request, out session.Outcome, err error) {
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gameRes{Snapshot: out.Snapshot, Feedback: out.Feedback})
}

func (s *Server) writeGameError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, session.ErrNoActiveSession) {
		hlog.FromRequest(r).Warn().Msg("no game instance found")
		writeError(w, http.StatusBadRequest, errNoGame)
		return
	}
	hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("game operation")
	writeError(w, http.StatusInternalServerError, "Failed to process request: "+err.Error())
}

// ----------------------------- HISTORY -------------------------------------

// handleStats returns win/loss totals of finished games.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history_disabled")
		return
	}
	sum, err := s.history.Summary(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("history summary")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// handleRecent returns the latest finished games; ?limit=N (1..100).
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history_disabled")
		return
	}
	limit := history.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "invalid_limit")
			return
		}
		limit = n
	}
	games, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("history recent")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// ------------------------------- small util --------------------------------

// writeJSON encodes v with status and a JSON content type.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
