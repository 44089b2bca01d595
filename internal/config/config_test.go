package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 3*time.Second, cfg.Countdown)
	assert.Equal(t, 30*time.Second, cfg.MatchDuration)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, HistoryNone, cfg.HistoryBackend)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "typerace.matches", cfg.KafkaTopic)
	assert.Equal(t, 32, cfg.WSOutbox)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("COUNTDOWN", "5s")
	t.Setenv("MATCH_DURATION", "1m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PUBLIC_URL", "https://typerace.example/")
	t.Setenv("HISTORY_BACKEND", "Redis")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("WS_OUTBOX", "8")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.Countdown)
	assert.Equal(t, time.Minute, cfg.MatchDuration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "https://typerace.example", cfg.PublicURL)
	assert.Equal(t, HistoryRedis, cfg.HistoryBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 8, cfg.WSOutbox)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MATCH_DURATION=45s\nLOG_FORMAT=console\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("MATCH_DURATION")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.MatchDuration)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_InvalidValuesAreCollected(t *testing.T) {
	t.Setenv("COUNTDOWN", "soon")
	t.Setenv("WS_OUTBOX", "-1")
	t.Setenv("HISTORY_BACKEND", "postgres")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COUNTDOWN")
	assert.Contains(t, err.Error(), "WS_OUTBOX")
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_SubSecondCountdownRejected(t *testing.T) {
	t.Setenv("COUNTDOWN", "400ms")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 1s")
}
