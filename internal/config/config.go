// Package config loads tool defaults from an optional YAML file. Command
// line flags always win over the file, the file wins over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fraugster/xpq/internal/output"
)

// DefaultFileName is the config file looked up in the user's home directory
// when no explicit path is given.
const DefaultFileName = ".xpq.yaml"

// Config holds the per-command defaults.
type Config struct {
	// Output configures how result tables are rendered.
	Output OutputConfig `yaml:"output"`

	// Read configures the read command.
	Read ReadConfig `yaml:"read"`

	// Sample configures the sample command.
	Sample SampleConfig `yaml:"sample"`
}

// OutputConfig configures rendering.
type OutputConfig struct {
	// Format is the default output format: table, csv or vertical.
	Format string `yaml:"format"`

	// MaxCellWidth caps table cells at this many characters. Zero uses
	// the terminal width when stdout is a terminal.
	MaxCellWidth int `yaml:"max_cell_width"`
}

// ReadConfig configures the read command.
type ReadConfig struct {
	// Limit is the default maximum number of rows printed.
	Limit int `yaml:"limit"`
}

// SampleConfig configures the sample command.
type SampleConfig struct {
	// Size is the default sample size.
	Size int `yaml:"size"`

	// Seed drives sample selection. Zero draws a fresh seed per run.
	Seed int64 `yaml:"seed"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "table",
		},
		Read: ReadConfig{
			Limit: 500,
		},
		Sample: SampleConfig{
			Size: 10,
		},
	}
}

// Load reads a config file, layered over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the config file from the user's home directory if one
// exists, and plain defaults otherwise.
func LoadDefault() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}

	path := filepath.Join(home, DefaultFileName)
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if c.Output.MaxCellWidth < 0 {
		return fmt.Errorf("output.max_cell_width must not be negative, got %d", c.Output.MaxCellWidth)
	}
	if c.Read.Limit < 0 {
		return fmt.Errorf("read.limit must not be negative, got %d", c.Read.Limit)
	}
	if c.Sample.Size < 0 {
		return fmt.Errorf("sample.size must not be negative, got %d", c.Sample.Size)
	}
	return nil
}
