// Package config loads the optional panelzero configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = ".panelzero.yml"

// Config holds the tunables shared by the CLI, the API server, and watch
// mode. Zero values mean "use the default".
type Config struct {
	// FuzzyThreshold is the similarity ratio the fuzzy location strategy
	// must exceed.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
	// MaxIssues caps how many issues one annotation pass processes.
	MaxIssues int `yaml:"max_issues"`
	// MaxPages is the admission ceiling; larger documents are rejected
	// before review.
	MaxPages int `yaml:"max_pages"`
	// ChunkTokens is the per-chunk token budget for oversized documents.
	ChunkTokens int `yaml:"chunk_tokens"`
	// Skip lists reviewer passes to disable.
	Skip []string `yaml:"skip"`
	// Inbox and Outdir configure watch mode.
	Inbox  string `yaml:"inbox"`
	Outdir string `yaml:"outdir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FuzzyThreshold: 0.6,
		MaxIssues:      10000,
		MaxPages:       80,
		ChunkTokens:    4000,
	}
}

// Load reads the config at path, layering it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// LoadDefault loads DefaultFile if it exists, otherwise the defaults.
func LoadDefault() (Config, error) {
	if _, err := os.Stat(DefaultFile); err != nil {
		return Default(), nil
	}
	return Load(DefaultFile)
}

// fillDefaults restores defaults for fields the file zeroed or omitted.
func (c *Config) fillDefaults() {
	d := Default()
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold > 1 {
		c.FuzzyThreshold = d.FuzzyThreshold
	}
	if c.MaxIssues <= 0 {
		c.MaxIssues = d.MaxIssues
	}
	if c.MaxPages <= 0 {
		c.MaxPages = d.MaxPages
	}
	if c.ChunkTokens <= 0 {
		c.ChunkTokens = d.ChunkTokens
	}
}
