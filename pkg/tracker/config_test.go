package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	cfg := ConfigFromEnv()
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "trackboard.db", cfg.DatabaseDSN)
	assert.True(t, cfg.CreateDefaults)
	assert.Zero(t, cfg.HistoryRetentionDays)
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("TRACKBOARD_LISTEN", ":9090")
	t.Setenv("TRACKBOARD_DB_TYPE", "postgres")
	t.Setenv("TRACKBOARD_DB_DSN", "host=db user=track dbname=track")
	t.Setenv("TRACKBOARD_CREATE_DEFAULTS", "false")
	t.Setenv("TRACKBOARD_HISTORY_RETENTION_DAYS", "30")

	cfg := ConfigFromEnv()
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "host=db user=track dbname=track", cfg.DatabaseDSN)
	assert.False(t, cfg.CreateDefaults)
	assert.Equal(t, 30, cfg.HistoryRetentionDays)
}

func TestConfigFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("TRACKBOARD_CREATE_DEFAULTS", "not-a-bool")
	t.Setenv("TRACKBOARD_HISTORY_RETENTION_DAYS", "-5")

	cfg := ConfigFromEnv()
	assert.True(t, cfg.CreateDefaults)
	assert.Zero(t, cfg.HistoryRetentionDays)
}
