// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

// Package config loads and validates Eventide configuration using Koanf v2
// with layered sources: built-in defaults, an optional YAML file, and
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Providers ProvidersConfig `koanf:"providers"`
	Sync      SyncConfig      `koanf:"sync"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. Empty means in-memory (tests only).
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	// Threads caps DuckDB worker threads. 0 = runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// ProvidersConfig groups per-provider adapter settings.
type ProvidersConfig struct {
	Ticketmaster TicketmasterConfig `koanf:"ticketmaster"`
	Eventbrite   EventbriteConfig   `koanf:"eventbrite"`
	GoogleCal    GoogleCalConfig    `koanf:"googlecal"`
}

// TicketmasterConfig configures the Ticketmaster Discovery API adapter.
type TicketmasterConfig struct {
	Enabled bool   `koanf:"enabled"`
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	// PageSize is the number of events requested per fetch.
	PageSize int `koanf:"page_size"`
}

// EventbriteConfig configures the Eventbrite API adapter.
type EventbriteConfig struct {
	Enabled bool   `koanf:"enabled"`
	Token   string `koanf:"token"`
	BaseURL string `koanf:"base_url"`
	// TokenEndpoint is the OAuth token refresh endpoint used when Token is
	// empty and tokens come from a linked account instead.
	TokenEndpoint string `koanf:"token_endpoint"`
	ClientID      string `koanf:"client_id"`
	ClientSecret  string `koanf:"client_secret"`
}

// GoogleCalConfig configures the Google Calendar ICS feed adapter.
type GoogleCalConfig struct {
	Enabled bool   `koanf:"enabled"`
	FeedURL string `koanf:"feed_url"`
}

// SyncConfig configures the periodic ingestion scheduler and provider retry
// behavior.
type SyncConfig struct {
	Enabled bool `koanf:"enabled"`
	// Schedule is a cron spec (robfig/cron, including @every forms).
	Schedule string   `koanf:"schedule"`
	UserIDs  []string `koanf:"user_ids"`
	City     string   `koanf:"city"`
	Keyword  string   `koanf:"keyword"`

	RetryAttempts int           `koanf:"retry_attempts"`
	RetryDelay    time.Duration `koanf:"retry_delay"`
}

// APIConfig holds pagination defaults for list endpoints.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all sensible default values.
// Defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8480,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "/data/eventide.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Providers: ProvidersConfig{
			Ticketmaster: TicketmasterConfig{
				Enabled:  false,
				BaseURL:  "https://app.ticketmaster.com/discovery/v2",
				PageSize: 50,
			},
			Eventbrite: EventbriteConfig{
				Enabled:       false,
				BaseURL:       "https://www.eventbriteapi.com/v3",
				TokenEndpoint: "https://www.eventbrite.com/oauth/token",
			},
			GoogleCal: GoogleCalConfig{
				Enabled: false,
			},
		},
		Sync: SyncConfig{
			Enabled:       false,
			Schedule:      "@every 1h",
			RetryAttempts: 3,
			RetryDelay:    2 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for values that would fail at runtime.
// It is called by LoadWithKoanf after all layers are merged.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Providers.Ticketmaster.Enabled && c.Providers.Ticketmaster.APIKey == "" {
		return fmt.Errorf("providers.ticketmaster.api_key is required when the adapter is enabled")
	}
	if c.Providers.GoogleCal.Enabled && c.Providers.GoogleCal.FeedURL == "" {
		return fmt.Errorf("providers.googlecal.feed_url is required when the adapter is enabled")
	}
	if c.Sync.Enabled && c.Sync.Schedule == "" {
		return fmt.Errorf("sync.schedule is required when sync is enabled")
	}
	if c.API.DefaultPageSize <= 0 || c.API.MaxPageSize <= 0 {
		return fmt.Errorf("api page sizes must be positive")
	}
	if c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("api.default_page_size (%d) exceeds api.max_page_size (%d)",
			c.API.DefaultPageSize, c.API.MaxPageSize)
	}
	if c.Sync.RetryAttempts < 1 {
		return fmt.Errorf("sync.retry_attempts must be at least 1")
	}
	return nil
}
