// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/scholarmesh/config.yaml",
	"/etc/scholarmesh/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all sensible default values.
// These are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8642,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "/data/scholarmesh.duckdb",
			MaxMemory: "2GB",
			Threads:   0, // 0 = runtime.NumCPU()
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Suggest: SuggestConfig{
			WeightPreset:      "semantic",
			ScoreCutoff:       0.1,
			DefaultLimit:      10,
			MaxLimit:          50,
			NetworkSaturation: 3,
			MinBioLength:      10,
		},
		// Disabled by default: requires an OpenAI API key. The engine
		// treats a missing provider as "semantic score always 0".
		Semantic: SemanticConfig{
			Enabled: false,
			APIKey:  "",
			Model:   "text-embedding-3-small",
			Timeout: 5 * time.Second,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML config file (if exists)
//  3. Environment variables: override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Env vars arrive as strings; split known slice fields on commas.
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines which config paths are parsed as
// comma-separated slices when sourced from env vars.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables are skipped so random environment variables don't
// pollute the configuration.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server
		"http_host":        "server.host",
		"http_port":        "server.port",
		"http_timeout":     "server.timeout",
		"shutdown_timeout": "server.shutdown_timeout",

		// Database
		"duckdb_path":       "database.path",
		"duckdb_max_memory": "database.max_memory",
		"duckdb_threads":    "database.threads",

		// API
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",
		"rate_limit_requests":   "api.rate_limit_reqs",
		"rate_limit_window":     "api.rate_limit_window",
		"cors_origins":          "api.cors_origins",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Suggestion engine
		"suggest_weight_preset":      "suggest.weight_preset",
		"suggest_weight_tag":         "suggest.weights.tag",
		"suggest_weight_skill":       "suggest.weights.skill",
		"suggest_weight_department":  "suggest.weights.department",
		"suggest_weight_network":     "suggest.weights.network",
		"suggest_weight_semantic":    "suggest.weights.semantic",
		"suggest_score_cutoff":       "suggest.score_cutoff",
		"suggest_default_limit":      "suggest.default_limit",
		"suggest_max_limit":          "suggest.max_limit",
		"suggest_network_saturation": "suggest.network_saturation",
		"suggest_min_bio_length":     "suggest.min_bio_length",

		// Semantic provider
		"semantic_enabled": "semantic.enabled",
		"openai_api_key":   "semantic.api_key",
		"semantic_model":   "semantic.model",
		"semantic_timeout": "semantic.timeout",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
