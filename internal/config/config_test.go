// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns a config that passes Validate, for mutation in tests.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = strings.Repeat("s", 32)
	return cfg
}

func TestDefaultConfigValidatesWithSecret(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config with secret should validate: %v", err)
	}
}

func TestValidateRejectsMissingSecret(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty jwt_secret")
	}
}

func TestValidateRejectsShortSecret(t *testing.T) {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = "too-short"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for short jwt_secret")
	}
	if !strings.Contains(err.Error(), "32 characters") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestValidatePortBounds(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.Server.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d should be rejected", port)
		}
	}
}

func TestValidateRecommendRequiresGroqKey(t *testing.T) {
	cfg := validConfig()
	cfg.Recommend.Enabled = true
	cfg.Groq.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("recommend.enabled without groq.api_key should be rejected")
	}

	cfg.Groq.APIKey = "gsk_test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("recommend.enabled with key should validate: %v", err)
	}
}

func TestValidateRecommendRejectsBadURL(t *testing.T) {
	cfg := validConfig()
	cfg.Recommend.Enabled = true
	cfg.Groq.APIKey = "gsk_test"
	cfg.Groq.URL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid groq.url should be rejected")
	}
}

func TestValidatePageSizeOrdering(t *testing.T) {
	cfg := validConfig()
	cfg.API.DefaultPageSize = 50
	cfg.API.MaxPageSize = 20
	if err := cfg.Validate(); err == nil {
		t.Fatal("max_page_size < default_page_size should be rejected")
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", strings.Repeat("k", 40))
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("DUCKDB_PATH", ":memory:")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("GROQ_TIMEOUT", "15s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("Path = %q, want :memory:", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Groq.Timeout != 15*time.Second {
		t.Errorf("Groq.Timeout = %s, want 15s", cfg.Groq.Timeout)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
}

func TestUnmappedEnvVarsIgnored(t *testing.T) {
	t.Setenv("JWT_SECRET", strings.Repeat("k", 40))
	t.Setenv("DUCKDB_PATH", ":memory:")
	t.Setenv("SOME_RANDOM_VAR", "should-not-leak")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want default", cfg.Server.Host)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"GROQ_API_KEY", "groq.api_key"},
		{"RECOMMEND_ENABLED", "recommend.enabled"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
