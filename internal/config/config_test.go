package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("SLA_HIGH_HOURS", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("POSTGRES_DSN", "")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 4*time.Hour, cfg.SLA.High)
	assert.Equal(t, 24*time.Hour, cfg.SLA.Medium)
	assert.Equal(t, 72*time.Hour, cfg.SLA.Low)
	assert.Equal(t, 168*time.Hour, cfg.SLA.Inactivity)
	assert.Equal(t, "TKT", cfg.Tickets.IDPrefix)
	assert.Equal(t, "@every 1h", cfg.Maintenance.Schedule)
	assert.False(t, cfg.Postgres.Enabled())
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SLA_HIGH_HOURS", "0.5")
	t.Setenv("TICKET_ID_PREFIX", "SUP")
	t.Setenv("AUTH_SESSION_TTL_MINUTES", "15")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.SLA.High)
	assert.Equal(t, "SUP", cfg.Tickets.IDPrefix)
	assert.Equal(t, 15*time.Minute, cfg.Auth.SessionTTL())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoadRejectsNonPositiveThresholds(t *testing.T) {
	t.Setenv("SLA_LOW_HOURS", "0")
	t.Setenv("SLA_INACTIVITY_HOURS", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLA_LOW_HOURS")
	assert.Contains(t, err.Error(), "SLA_INACTIVITY_HOURS")
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "x")

	_, err := Load()
	require.Error(t, err)
}
