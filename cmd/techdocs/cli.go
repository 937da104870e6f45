package main

import "github.com/michaeldistler/backstage/config"

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config      string  `short:"f" type:"path" help:"Path to YAML configuration file"`
	BaseURL     string  `help:"Backstage backend base URL (overrides config)"`
	Token       string  `help:"Static service token for catalog requests (overrides config)"`
	TokenURL    string  `help:"Auth endpoint issuing service tokens (overrides config)"`
	Template    string  `help:"Document location template (overrides config)"`
	Concurrency int     `short:"c" help:"Concurrent index fetch limit (overrides config)"`
	LegacyPaths bool    `name:"legacy-case-sensitive-paths" help:"Preserve entity key casing in documentation paths"`
	RPS         float64 `name:"rps" help:"Max index fetches per second per host (0 disables limiting)"`
	Output      string  `short:"o" type:"path" help:"Write NDJSON to this file instead of stdout"`
	Verbose     bool    `short:"v" help:"Enable debug logging"`
}

// override applies explicitly-set flags on top of the loaded configuration.
func (c *CLI) override(cfg *config.Config) {
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.Token != "" {
		cfg.Token = c.Token
	}
	if c.TokenURL != "" {
		cfg.TokenURL = c.TokenURL
	}
	if c.Template != "" {
		cfg.TechDocs.Template = c.Template
	}
	if c.Concurrency > 0 {
		cfg.TechDocs.Concurrency = c.Concurrency
	}
	if c.LegacyPaths {
		cfg.TechDocs.LegacyUseCaseSensitiveTripletPaths = true
	}
	if c.RPS > 0 {
		cfg.TechDocs.RequestsPerSecond = c.RPS
	}
}
