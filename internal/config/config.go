// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all application configuration loaded from environment variables
// and an optional YAML config file.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from
// multiple goroutines.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Security  SecurityConfig  `koanf:"security"`
	API       APIConfig       `koanf:"api"`
	Groq      GroqConfig      `koanf:"groq"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP listen port.
	Port int `koanf:"port"`

	// Host is the listen address (0.0.0.0 binds all interfaces).
	Host string `koanf:"host"`

	// Timeout is the read/write timeout applied to the HTTP server.
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds DuckDB settings for the catalog and user data store.
type DatabaseConfig struct {
	// Path is the DuckDB database file. Use ":memory:" for an in-memory store.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB memory usage (e.g. "1GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads sets DuckDB worker threads. 0 = runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// CatalogConfig controls catalog seeding on startup.
type CatalogConfig struct {
	// SeedPath is a JSON movie dump imported when the movies table is empty.
	// Empty disables seeding.
	SeedPath string `koanf:"seed_path"`
}

// SecurityConfig holds authentication settings.
type SecurityConfig struct {
	// JWTSecret signs access tokens (HS256). Minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the access token lifetime.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// RefreshTimeout is the refresh session lifetime in the Badger store.
	RefreshTimeout time.Duration `koanf:"refresh_timeout"`

	// SessionStorePath is the Badger directory for refresh sessions.
	// Empty uses an in-memory store.
	SessionStorePath string `koanf:"session_store_path"`

	// RateLimitReqs is requests per window per client for authenticated routes.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit window duration.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// APIConfig holds pagination bounds.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// GroqConfig holds the hosted text-generation endpoint settings.
//
// The generation call is the only outbound dependency of the recommendation
// pipeline and is treated as unreliable: it gets an explicit timeout, an
// outbound rate limit, and a circuit breaker.
type GroqConfig struct {
	// APIKey authenticates against the Groq API. Required when AI
	// recommendations are enabled.
	APIKey string `koanf:"api_key"`

	// URL is the chat-completions endpoint.
	URL string `koanf:"url"`

	// Model is the model identifier sent with each request.
	Model string `koanf:"model"`

	// Timeout bounds a single generation round trip.
	Timeout time.Duration `koanf:"timeout"`

	// MaxTokens caps the completion length. The repair chain in the
	// recommendation pipeline tolerates output truncated at this limit.
	MaxTokens int `koanf:"max_tokens"`

	// Temperature is the sampling temperature.
	Temperature float64 `koanf:"temperature"`

	// RequestsPerSecond limits outbound calls to the endpoint. 0 = unlimited.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// RecommendConfig holds recommendation pipeline settings.
type RecommendConfig struct {
	// Enabled toggles the AI recommendation endpoint.
	Enabled bool `koanf:"enabled"`

	// MaxPreferenceItems bounds favorites, watched, and rated lists fed to
	// the generation prompt.
	MaxPreferenceItems int `koanf:"max_preference_items"`

	// ResolveConcurrency caps concurrent catalog lookups during preference
	// aggregation.
	ResolveConcurrency int `koanf:"resolve_concurrency"`

	// SurveyLimit is the number of survey-driven recommendations returned.
	SurveyLimit int `koanf:"survey_limit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that would prevent the server
// from operating correctly. It is called by Load() after unmarshaling.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required (JWT_SECRET)")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters, got %d", len(c.Security.JWTSecret))
	}

	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size (%d) must be >= api.default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}

	if c.Recommend.Enabled {
		if c.Groq.APIKey == "" {
			return fmt.Errorf("groq.api_key is required when recommend.enabled is true (GROQ_API_KEY)")
		}
		if _, err := url.ParseRequestURI(c.Groq.URL); err != nil {
			return fmt.Errorf("groq.url is not a valid URL: %w", err)
		}
		if c.Groq.Timeout <= 0 {
			return fmt.Errorf("groq.timeout must be positive, got %s", c.Groq.Timeout)
		}
	}

	if c.Recommend.MaxPreferenceItems < 1 {
		return fmt.Errorf("recommend.max_preference_items must be positive, got %d", c.Recommend.MaxPreferenceItems)
	}
	if c.Recommend.ResolveConcurrency < 1 {
		return fmt.Errorf("recommend.resolve_concurrency must be positive, got %d", c.Recommend.ResolveConcurrency)
	}

	return nil
}
