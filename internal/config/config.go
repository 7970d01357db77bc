package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// HistoryDisabled as DB_PATH turns off the finished-games database.
const HistoryDisabled = "off"

// Config holds all application configuration
type Config struct {
	Port           string
	LogLevel       string
	LogFormat      string // "json" or "console"
	WordsFile      string // empty = embedded default list
	DBPath         string
	StaticDir      string
	CORSOrigin     string
	RequestTimeout time.Duration
	WordSeed       int64 // 0 = seed from the clock
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "5000"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  strings.ToLower(getEnv("LOG_FORMAT", "json")),
		WordsFile:  os.Getenv("WORDS_FILE"),
		DBPath:     getEnv("DB_PATH", "./data/hangman.db"),
		StaticDir:  getEnv("STATIC_DIR", "static"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
	}

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.RequestTimeout = timeout

	if v := os.Getenv("WORD_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("WORD_SEED: %w", err)
		}
		cfg.WordSeed = seed
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return nil, fmt.Errorf("LOG_FORMAT must be json or console, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// HistoryEnabled reports whether finished games should be stored.
func (c *Config) HistoryEnabled() bool {
	return c.DBPath != "" && !strings.EqualFold(c.DBPath, HistoryDisabled)
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
