// Package config loads collator configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a field is absent from both file and environment.
const (
	DefaultTemplate    = "/docs/:namespace/:kind/:name/:path"
	DefaultConcurrency = 10
)

// Config is the full configuration surface of the collator.
type Config struct {
	// BaseURL is the Backstage backend base URL used for plugin discovery.
	BaseURL string `yaml:"baseUrl"`

	// Token is a static service token for catalog requests. Empty means
	// anonymous access.
	Token string `yaml:"token"`

	// TokenURL, if set, points at an auth endpoint issuing tokens and
	// takes precedence over Token.
	TokenURL string `yaml:"tokenUrl"`

	TechDocs TechDocs `yaml:"techdocs"`
}

// TechDocs holds the techdocs.* configuration keys.
type TechDocs struct {
	// LegacyUseCaseSensitiveTripletPaths preserves entity key casing in
	// documentation paths. Off by default.
	LegacyUseCaseSensitiveTripletPaths bool `yaml:"legacyUseCaseSensitiveTripletPaths"`

	// Template renders document locations.
	Template string `yaml:"template"`

	// Concurrency caps in-flight index fetches.
	Concurrency int `yaml:"concurrency"`

	// RequestsPerSecond rate-limits index fetches per host. Zero disables
	// limiting.
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		TechDocs: TechDocs{
			Template:    DefaultTemplate,
			Concurrency: DefaultConcurrency,
		},
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults for absent fields and applying environment overrides last.
// An empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.TechDocs.Template == "" {
		cfg.TechDocs.Template = DefaultTemplate
	}
	if cfg.TechDocs.Concurrency <= 0 {
		cfg.TechDocs.Concurrency = DefaultConcurrency
	}

	return cfg, nil
}

// applyEnv overrides file values with BACKSTAGE_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("BACKSTAGE_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("BACKSTAGE_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("BACKSTAGE_TOKEN_URL"); v != "" {
		c.TokenURL = v
	}
	if v := os.Getenv("BACKSTAGE_TECHDOCS_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TechDocs.Concurrency = n
		}
	}
	if v := os.Getenv("BACKSTAGE_TECHDOCS_LEGACY_CASE_SENSITIVE_PATHS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.TechDocs.LegacyUseCaseSensitiveTripletPaths = b
		}
	}
}
