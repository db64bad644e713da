// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package config

import (
	"os"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestDefaultSuggestSettings(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Suggest.WeightPreset != "semantic" {
		t.Errorf("default weight preset = %q, want semantic", cfg.Suggest.WeightPreset)
	}
	if cfg.Suggest.ScoreCutoff != 0.1 {
		t.Errorf("default score cutoff = %f, want 0.1", cfg.Suggest.ScoreCutoff)
	}
	if cfg.Suggest.MaxLimit != 50 {
		t.Errorf("default max limit = %d, want 50", cfg.Suggest.MaxLimit)
	}
	if cfg.Suggest.NetworkSaturation != 3 {
		t.Errorf("default network saturation = %d, want 3", cfg.Suggest.NetworkSaturation)
	}
	if cfg.Suggest.MinBioLength != 10 {
		t.Errorf("default min bio length = %d, want 10", cfg.Suggest.MinBioLength)
	}
	if cfg.Semantic.Enabled {
		t.Error("semantic provider should be disabled by default")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }},
		{"max page below default", func(c *Config) { c.API.MaxPageSize = 5 }},
		{"zero default limit", func(c *Config) { c.Suggest.DefaultLimit = 0 }},
		{"max limit below default", func(c *Config) { c.Suggest.MaxLimit = 1; c.Suggest.DefaultLimit = 10 }},
		{"cutoff out of range", func(c *Config) { c.Suggest.ScoreCutoff = 1.5 }},
		{"negative cutoff", func(c *Config) { c.Suggest.ScoreCutoff = -0.1 }},
		{"unknown preset", func(c *Config) { c.Suggest.WeightPreset = "bogus" }},
		{"semantic enabled without timeout", func(c *Config) {
			c.Semantic.Enabled = true
			c.Semantic.Timeout = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("SUGGEST_DEFAULT_LIMIT", "5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEMANTIC_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Suggest.DefaultLimit != 5 {
		t.Errorf("default limit = %d, want 5", cfg.Suggest.DefaultLimit)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Semantic.Timeout != 2*time.Second {
		t.Errorf("semantic timeout = %v, want 2s", cfg.Semantic.Timeout)
	}
}

func TestLoadIgnoresUnmappedEnvVars(t *testing.T) {
	t.Setenv("RANDOM_UNRELATED_VAR", "should-be-ignored")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q, want default", cfg.Server.Host)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"SUGGEST_WEIGHT_TAG", "suggest.weights.tag"},
		{"OPENAI_API_KEY", "semantic.api_key"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.API.CORSOrigins) != 2 {
		t.Fatalf("cors origins = %v, want 2 entries", cfg.API.CORSOrigins)
	}
	if cfg.API.CORSOrigins[0] != "https://a.example.com" {
		t.Errorf("first origin = %q", cfg.API.CORSOrigins[0])
	}
}

func TestFindConfigFileEnvOverride(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmp.WriteString("server:\n  port: 1234\n"); err != nil {
		t.Fatal(err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, tmp.Name())

	if got := findConfigFile(); got != tmp.Name() {
		t.Errorf("findConfigFile() = %q, want %q", got, tmp.Name())
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 1234 {
		t.Errorf("port from config file = %d, want 1234", cfg.Server.Port)
	}
}
