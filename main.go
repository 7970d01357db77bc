package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/apps/go-server/internal/config"
	"github.com/robalobadob/hangman/apps/go-server/internal/history"
	"github.com/robalobadob/hangman/apps/go-server/internal/httpserver"
	"github.com/robalobadob/hangman/apps/go-server/internal/session"
	"github.com/robalobadob/hangman/apps/go-server/internal/store"
	"github.com/robalobadob/hangman/apps/go-server/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stop()
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// run wires the server and blocks until ctx is done or the listener fails.
// Deferred cleanup (the history database) runs on both paths.
func run(ctx context.Context, cfg *config.Config) error {
	entries, err := words.Load(cfg.WordsFile)
	if err != nil {
		return fmt.Errorf("load word list %s: %w", cfg.WordsFile, err)
	}
	if len(entries) == 0 {
		log.Warn().Msg("word list is empty; every start will fail")
	}
	seed := cfg.WordSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	bank := words.NewBank(entries, rand.New(rand.NewSource(seed)))

	var (
		rec  session.Recorder
		hist httpserver.History
	)
	if cfg.HistoryEnabled() {
		db, err := openDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database %s: %w", cfg.DBPath, err)
		}
		defer db.Close()
		if err := migrateDB(db); err != nil {
			return err
		}
		hs := history.NewStore(db)
		rec, hist = hs, hs
	} else {
		log.Info().Msg("game history disabled")
	}

	mgr := session.NewManager(bank, store.NewMemoryStore(), rec)
	srv := httpserver.New(mgr, hist, bank, httpserver.Options{
		CORSOrigin:     cfg.CORSOrigin,
		RequestTimeout: cfg.RequestTimeout,
		StaticDir:      cfg.StaticDir,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Int("words", bank.Len()).Msg("starting go-server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", httpSrv.Addr, err)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	return nil
}

// setupLogger applies LOG_LEVEL and LOG_FORMAT to the global logger.
func setupLogger(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown LOG_LEVEL, keeping default")
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	zerolog.DefaultContextLogger = &log.Logger
}
