// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - Validation errors wrap ErrInvalidConfig, loader errors wrap ErrLoadConfig.
package config

import (
	"context"
	"strings"
)

// Supported store drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects where the arena collection is persisted.
	StoreDriver string `koanf:"store_driver"`

	// StorePath is the file (file driver) or database file (sqlite driver).
	StorePath string `koanf:"store_path"`

	// DatabaseURL is the Postgres connection string (postgres driver).
	DatabaseURL string `koanf:"database_url"`

	// PersistQueueSize bounds the write-behind snapshot queue.
	PersistQueueSize int `koanf:"persist_queue_size"`

	// DedupeSize bounds the number of remembered outcome request ids.
	DedupeSize int `koanf:"dedupe_size"`

	// SeedDefaultArena creates the sample arena when the store is empty.
	SeedDefaultArena bool `koanf:"seed_default_arena"`

	// RateLimit is a ulule/limiter formatted rate, e.g. "600-M". Empty disables it.
	RateLimit string `koanf:"rate_limit"`

	// CORSAllowedOrigins is a comma separated origin list.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`

	// MaxRequestBytes caps request bodies.
	MaxRequestBytes int64 `koanf:"max_request_bytes"`
}

// New creates a Config holding the defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		StoreDriver:        DriverFile,
		StorePath:          "arenas.json",
		PersistQueueSize:   64,
		DedupeSize:         10_000,
		SeedDefaultArena:   true,
		RateLimit:          "600-M",
		CORSAllowedOrigins: "*",
		MaxRequestBytes:    1 << 20,
	}
}

// Origins splits CORSAllowedOrigins into a list.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
