package tracker

import (
	"os"
	"strconv"
)

// Config holds the server settings.
type Config struct {
	ListenAddr           string // Address the HTTP server binds to.
	DatabaseType         string // "sqlite", "postgres", or "mysql".
	DatabaseDSN          string // Driver-specific connection string.
	CreateDefaults       bool   // Seed the default board and statuses on startup.
	HistoryRetentionDays int    // 0 keeps history forever.
}

// DefaultConfig returns the default configuration: a local sqlite file,
// defaults seeded, history kept forever.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:           ":8080",
		DatabaseType:         "sqlite",
		DatabaseDSN:          "trackboard.db",
		CreateDefaults:       true,
		HistoryRetentionDays: 0,
	}
}

// ConfigFromEnv loads config from environment variables, falling back to the
// defaults. TRACKBOARD_LISTEN, TRACKBOARD_DB_TYPE, TRACKBOARD_DB_DSN,
// TRACKBOARD_CREATE_DEFAULTS, TRACKBOARD_HISTORY_RETENTION_DAYS.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("TRACKBOARD_LISTEN"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("TRACKBOARD_DB_TYPE"); v != "" {
		cfg.DatabaseType = v
	}
	if v := os.Getenv("TRACKBOARD_DB_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("TRACKBOARD_CREATE_DEFAULTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CreateDefaults = b
		}
	}
	if v := os.Getenv("TRACKBOARD_HISTORY_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days >= 0 {
			cfg.HistoryRetentionDays = days
		}
	}

	return cfg
}
