// Package config provides configuration management for the ClipVault TUI.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the TUI configuration.
type Config struct {
	// Server to talk to
	ServerURL string

	// Search preferences
	MaxResults int

	// Progress polling interval
	PollInterval time.Duration
}

// Load returns configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		ServerURL:    getEnv("CLIPVAULT_SERVER", "http://localhost:3001"),
		MaxResults:   getInt("CLIPVAULT_MAX_RESULTS", 12),
		PollInterval: getDuration("CLIPVAULT_POLL_INTERVAL", time.Second),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
