// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

// Package config loads and validates the ScholarMesh configuration.
//
// Configuration is layered via Koanf v2 (highest priority wins):
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, /etc/scholarmesh/config.yaml
//     or CONFIG_PATH)
//  3. Environment variables
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
	Suggest  SuggestConfig  `koanf:"suggest"`
	Semantic SemanticConfig `koanf:"semantic"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file path. ":memory:" opens an in-memory store.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB memory usage, e.g. "2GB".
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 = runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	DefaultPageSize int           `koanf:"default_page_size"`
	MaxPageSize     int           `koanf:"max_page_size"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SuggestConfig holds collaboration suggestion engine settings.
type SuggestConfig struct {
	// WeightPreset selects a named signal weight set. One of "semantic"
	// (default), "network", "content". Individual weights override the
	// preset when set explicitly.
	WeightPreset string `koanf:"weight_preset"`

	// Weights is the signal weight table. Zero values fall back to the
	// selected preset.
	Weights WeightsConfig `koanf:"weights"`

	// ScoreCutoff discards candidates whose composite score is at or
	// below this value.
	ScoreCutoff float64 `koanf:"score_cutoff"`

	// DefaultLimit is the number of suggestions returned when the caller
	// doesn't specify one.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit is the upper clamp for the requested suggestion count.
	MaxLimit int `koanf:"max_limit"`

	// NetworkSaturation is the mutual-collaborator count at which the
	// network signal reaches 1.0.
	NetworkSaturation int `koanf:"network_saturation"`

	// MinBioLength is the minimum biography length (in characters) for
	// the semantic signal to be computed.
	MinBioLength int `koanf:"min_bio_length"`
}

// WeightsConfig is the raw signal weight table from configuration.
type WeightsConfig struct {
	Tag        float64 `koanf:"tag"`
	Skill      float64 `koanf:"skill"`
	Department float64 `koanf:"department"`
	Network    float64 `koanf:"network"`
	Semantic   float64 `koanf:"semantic"`
}

// SemanticConfig holds semantic similarity provider settings.
type SemanticConfig struct {
	// Enabled controls whether biography similarity is computed at all.
	// When false the semantic signal is always 0.
	Enabled bool `koanf:"enabled"`

	// APIKey is the OpenAI API key. An empty key disables the provider.
	APIKey string `koanf:"api_key"`

	// Model is the embedding model name.
	Model string `koanf:"model"`

	// Timeout bounds a single embedding call. On timeout the semantic
	// signal degrades to 0 for that candidate.
	Timeout time.Duration `koanf:"timeout"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size must be >= api.default_page_size, got %d < %d",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if c.Suggest.DefaultLimit < 1 {
		return fmt.Errorf("suggest.default_limit must be positive, got %d", c.Suggest.DefaultLimit)
	}
	if c.Suggest.MaxLimit < c.Suggest.DefaultLimit {
		return fmt.Errorf("suggest.max_limit must be >= suggest.default_limit, got %d < %d",
			c.Suggest.MaxLimit, c.Suggest.DefaultLimit)
	}
	if c.Suggest.ScoreCutoff < 0 || c.Suggest.ScoreCutoff >= 1 {
		return fmt.Errorf("suggest.score_cutoff must be in [0, 1), got %f", c.Suggest.ScoreCutoff)
	}
	switch c.Suggest.WeightPreset {
	case "", "semantic", "network", "content":
	default:
		return fmt.Errorf("suggest.weight_preset must be one of semantic, network, content, got %q",
			c.Suggest.WeightPreset)
	}
	if c.Semantic.Enabled && c.Semantic.Timeout <= 0 {
		return fmt.Errorf("semantic.timeout must be positive when semantic is enabled, got %v",
			c.Semantic.Timeout)
	}
	return nil
}
