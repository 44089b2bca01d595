// Package config reads server settings from the environment, after loading
// any .env file found in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

const (
	HistoryNone     = "none"
	HistoryPostgres = "postgres"
	HistoryRedis    = "redis"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string // json or console

	Countdown     time.Duration
	MatchDuration time.Duration

	CORSOrigins []string
	PublicURL   string

	HistoryBackend string
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string

	KafkaBrokers []string
	KafkaTopic   string

	WSOutbox       int
	WSPingInterval time.Duration
}

// Load reads files (".env" when none are given) and then the environment.
// Missing files are skipped; variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var errs error
	cfg := &Config{
		Port:           getEnv("PORT", "3001"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		PublicURL:      strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:3000"), "/"),
		HistoryBackend: strings.ToLower(getEnv("HISTORY_BACKEND", HistoryNone)),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:   splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "typerace.matches"),
	}
	cfg.Countdown = duration("COUNTDOWN", 3*time.Second, &errs)
	if cfg.Countdown < time.Second {
		// Clients are told the countdown in whole seconds.
		errs = multierr.Append(errs, fmt.Errorf("COUNTDOWN: want at least 1s, got %s", cfg.Countdown))
	}
	cfg.MatchDuration = duration("MATCH_DURATION", 30*time.Second, &errs)
	cfg.WSPingInterval = duration("WS_PING_INTERVAL", 30*time.Second, &errs)
	cfg.WSOutbox = integer("WS_OUTBOX", 32, &errs)

	switch cfg.LogFormat {
	case "json", "console":
	default:
		errs = multierr.Append(errs, fmt.Errorf("LOG_FORMAT: unknown format %q", cfg.LogFormat))
	}
	switch cfg.HistoryBackend {
	case HistoryNone, HistoryRedis:
	case HistoryPostgres:
		if cfg.DatabaseURL == "" {
			errs = multierr.Append(errs, errors.New("DATABASE_URL is required for the postgres history backend"))
		}
	default:
		errs = multierr.Append(errs, fmt.Errorf("HISTORY_BACKEND: unknown backend %q", cfg.HistoryBackend))
	}

	if errs != nil {
		return nil, fmt.Errorf("invalid config: %w", errs)
	}
	return cfg, nil
}

func (c *Config) Addr() string { return ":" + c.Port }

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func duration(key string, def time.Duration, errs *error) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		*errs = multierr.Append(*errs, fmt.Errorf("%s: want a positive duration, got %q", key, raw))
		return def
	}
	return d
}

func integer(key string, def int, errs *error) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		*errs = multierr.Append(*errs, fmt.Errorf("%s: want a positive integer, got %q", key, raw))
		return def
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
