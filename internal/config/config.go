// Package config defines service configuration and its loading.
//
// Conventions:
// - New() returns a Config holding the defaults.
// - Load(ctx) layers YAML and environment on top of those defaults.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"strings"
)

// Store drivers accepted in StoreDriver.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreDriver selects persistence: file, sqlite or memory.
	StoreDriver string `koanf:"store_driver"`

	// DataDir holds the JSON documents of the file store.
	DataDir string `koanf:"data_dir"`

	// DBPath is the libSQL database file used by the sqlite driver.
	DBPath string `koanf:"db_path"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// TeamPlay makes new 4-player games decide the winner by partnership.
	TeamPlay bool `koanf:"team_play"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		StoreDriver:         DriverFile,
		DataDir:             "data",
		DBPath:              "data/pinochle.db",
		MaxLeaderboardLimit: 100,
		TeamPlay:            true,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case DriverFile:
		if c.DataDir == "" {
			return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.MaxLeaderboardLimit < 1 {
		return fmt.Errorf("%w: max_leaderboard_limit must be >= 1", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
