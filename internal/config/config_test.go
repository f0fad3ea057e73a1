package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadExpandsEnvAndAppliesDefaults(t *testing.T) {
	dbDir := t.TempDir()
	t.Setenv("TEST_MESS_DB", filepath.Join(dbDir, "mess.db"))
	path := writeConfig(t, `
database:
  path: ${TEST_MESS_DB}
redis:
  address: localhost:6379
booking:
  enforce_unique: true
  timezone: Asia/Kolkata
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dbDir, "mess.db"), cfg.Database.Path)
	assert.Equal(t, ":9237", cfg.Server.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "mess:realtime", cfg.Redis.RealtimeChannel)
	assert.True(t, cfg.Booking.EnforceUnique)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
	assert.Equal(t, 5*time.Minute, cfg.MenuCacheTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.SessionDuration())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "data", "mess.db"))

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	rps, burst := cfg.RateLimit()
	assert.Equal(t, 10.0, rps)
	assert.Equal(t, 20, burst)
	assert.DirExists(t, filepath.Dir(cfg.Database.Path))
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "mess.db"))
	t.Setenv("BOOKING_ENFORCE_UNIQUE", "false")
	t.Setenv("SESSION_DURATION", "2h")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	path := writeConfig(t, `
booking:
  enforce_unique: true
auth:
  session_hours: 48
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Booking.EnforceUnique)
	assert.Equal(t, 2*time.Hour, cfg.SessionDuration())
	assert.Equal(t, int64(-100123), cfg.Telegram.ChatID)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	var cfg Config
	cfg.Booking.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}
