package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/bfxledger/internal/catalog"
	"github.com/cleared-dev/bfxledger/internal/encoding"
	"github.com/cleared-dev/bfxledger/internal/logging"
)

// DefaultPath is where init-config writes when no path is given.
const DefaultPath = "bfxledger.yaml"

// Config represents the bfxledger.yaml configuration.
type Config struct {
	Format       string    `yaml:"format"`
	LogLevel     string    `yaml:"log_level"`
	Color        bool      `yaml:"color"`
	UnmatchedOut string    `yaml:"unmatched_out,omitempty"`
	Patterns     []Pattern `yaml:"patterns,omitempty"`
}

// Pattern is an extra catalog entry, registered after the built-in ones.
type Pattern struct {
	Type    string `yaml:"type"`
	Pattern string `yaml:"pattern"`
}

// Load reads a bfxledger.yaml file from disk. Keys missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the command line defaults.
func Default() *Config {
	return &Config{
		Format:   "yaml",
		LogLevel: "warn",
		Color:    true,
	}
}

// Validate checks the output format and log level.
func (c *Config) Validate() error {
	if _, err := encoding.DefaultRegistry().Lookup(c.Format); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Catalog returns the built-in catalog extended with the configured patterns.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	cat := catalog.Default()
	for i, p := range c.Patterns {
		if err := cat.Register(p.Type, p.Pattern); err != nil {
			return nil, fmt.Errorf("pattern %d (%s): %w", i+1, p.Type, err)
		}
	}
	return cat, nil
}
