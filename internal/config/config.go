// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...Option) initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and SIMONEV_ env vars.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Storage drivers understood by the persistence layer.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StorageDriver selects where snapshots are persisted: file, sqlite or memory.
	StorageDriver string `koanf:"storage_driver"`

	// StoragePath is the snapshot file or SQLite database path.
	StoragePath string `koanf:"storage_path"`

	// SeedPath optionally points at a YAML school directory. Empty uses the built-in one.
	SeedPath string `koanf:"seed_path"`

	// DefaultEventWeight is applied when an event is created without a weight.
	DefaultEventWeight float64 `koanf:"default_event_weight"`

	// FastBonus and NormalBonus are the submission bonuses.
	FastBonus   float64 `koanf:"fast_bonus"`
	NormalBonus float64 `koanf:"normal_bonus"`

	// FastWindowDays is how many days after the event date a submission still earns FastBonus.
	FastWindowDays int `koanf:"fast_window_days"`

	// MaxRankingLimit caps GET /api/rankings?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// PersistQueueSize bounds the snapshot persist queue.
	PersistQueueSize int `koanf:"persist_queue_size"`

	// Summary collaborator settings.
	SummaryAPIKey        string `koanf:"summary_api_key"`
	SummaryModel         string `koanf:"summary_model"`
	SummaryTimeoutMS     int    `koanf:"summary_timeout_ms"`
	SummaryRatePerMinute int    `koanf:"summary_rate_per_minute"`
}

// Option mutates a Config built by New.
type Option func(*Config)

// WithAddr overrides the listen address.
func WithAddr(addr string) Option {
	return func(c *Config) {
		if addr != "" {
			c.Addr = addr
		}
	}
}

// WithStorage overrides the storage driver and path.
func WithStorage(driver, path string) Option {
	return func(c *Config) {
		if driver != "" {
			c.StorageDriver = driver
		}
		if path != "" {
			c.StoragePath = path
		}
	}
}

// WithSummaryAPIKey sets the summary collaborator API key.
func WithSummaryAPIKey(key string) Option {
	return func(c *Config) { c.SummaryAPIKey = key }
}

// New creates a Config with defaults and applies opts.
func New(opts ...Option) *Config {
	c := &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		StorageDriver:        StorageFile,
		StoragePath:          "simonev-data.json",
		DefaultEventWeight:   10,
		FastBonus:            5,
		NormalBonus:          2,
		FastWindowDays:       3,
		MaxRankingLimit:      500,
		PersistQueueSize:     16,
		SummaryModel:         "gemini-2.5-flash",
		SummaryTimeoutMS:     20_000,
		SummaryRatePerMinute: 6,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FastWindow returns FastWindowDays as a duration.
func (c *Config) FastWindow() time.Duration {
	return time.Duration(c.FastWindowDays) * 24 * time.Hour
}

// SummaryTimeout returns SummaryTimeoutMS as a duration.
func (c *Config) SummaryTimeout() time.Duration {
	return time.Duration(c.SummaryTimeoutMS) * time.Millisecond
}

// Validate checks the values the service cannot start without.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.StorageDriver) {
	case StorageFile, StorageSQLite:
		if c.StoragePath == "" {
			return fmt.Errorf("%w: storage_path must not be empty for driver %q", ErrInvalidConfig, c.StorageDriver)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("%w: unknown storage_driver %q", ErrInvalidConfig, c.StorageDriver)
	}
	if c.DefaultEventWeight < 0 || c.FastBonus < 0 || c.NormalBonus < 0 {
		return fmt.Errorf("%w: weights and bonuses must not be negative", ErrInvalidConfig)
	}
	if c.FastWindowDays < 0 {
		return fmt.Errorf("%w: fast_window_days must not be negative", ErrInvalidConfig)
	}
	if c.MaxRankingLimit <= 0 {
		return fmt.Errorf("%w: max_ranking_limit must be positive", ErrInvalidConfig)
	}
	if c.PersistQueueSize <= 0 {
		return fmt.Errorf("%w: persist_queue_size must be positive", ErrInvalidConfig)
	}
	if c.SummaryTimeoutMS <= 0 {
		return fmt.Errorf("%w: summary_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
