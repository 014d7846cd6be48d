// Package config provides configuration management for ed-forge.
//
// Settings come from a YAML file and are then overridden by EDFORGE_*
// environment variables.
//
// Config file locations (priority order):
//  1. $EDFORGE_CONFIG
//  2. ./edforge.yaml
//  3. $XDG_CONFIG_HOME/edforge/config.yaml (~/.config when unset)
//  4. /etc/edforge/config.yaml
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides apply either way.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.applyEnv(); err != nil {
			return nil, "", err
		}
		return cfg, "", cfg.Validate()
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, path, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Codec: CodecConfig{
			CompressionLevel: 9,
			OutputFormat:     "json",
		},
		Distributor: DistributorConfig{Sys: 2, Eng: 2, Wep: 2},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Codec.OutputFormat == "" {
		c.Codec.OutputFormat = "json"
	}
	if c.Distributor == (DistributorConfig{}) {
		c.Distributor = DistributorConfig{Sys: 2, Eng: 2, Wep: 2}
	}
}

// applyEnv overrides file settings with EDFORGE_* variables
func (c *Config) applyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks every setting is usable
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}

	if c.Codec.CompressionLevel < -2 || c.Codec.CompressionLevel > 9 {
		return fmt.Errorf("invalid compression level %d", c.Codec.CompressionLevel)
	}

	switch c.Codec.OutputFormat {
	case "json", "yaml", "code", "journal":
	default:
		return fmt.Errorf("invalid output format %q", c.Codec.OutputFormat)
	}

	d := c.Distributor
	for _, pips := range []float64{d.Sys, d.Eng, d.Wep} {
		if pips < 0 || pips > 4 || math.Mod(pips*2, 1) != 0 {
			return fmt.Errorf("invalid distributor pips %g", pips)
		}
	}
	if d.Sys+d.Eng+d.Wep != 6 {
		return fmt.Errorf("distributor pips must sum to 6, got %g", d.Sys+d.Eng+d.Wep)
	}

	return nil
}

// JournalDir returns the configured journal directory or the game's default
func (c *Config) JournalDir() string {
	if c.Journal.Dir != "" {
		return c.Journal.Dir
	}
	return DefaultJournalDir()
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	catalog := c.Catalog.Path
	if catalog == "" {
		catalog = "embedded"
	}

	summary := fmt.Sprintf("Log: %s (%s)\n", c.Log.Level, c.Log.Format)
	summary += fmt.Sprintf("Catalog: %s\n", catalog)
	summary += fmt.Sprintf("Output: %s, compression level %d\n", c.Codec.OutputFormat, c.Codec.CompressionLevel)
	summary += fmt.Sprintf("Distributor: SYS %g ENG %g WEP %g\n", c.Distributor.Sys, c.Distributor.Eng, c.Distributor.Wep)
	summary += fmt.Sprintf("Journals: %s", c.JournalDir())

	return summary
}
