// Package config holds runtime configuration and logger setup.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// ProgressMode selects how batch progress is shown.
type ProgressMode string

const (
	ProgressLog ProgressMode = "log" // Log a line per sample (default).
	ProgressBar ProgressMode = "bar" // Interactive progress bar on a terminal.
)

// Config holds all configuration values.
type Config struct {
	// Concurrency
	Workers int `yaml:"workers"`

	// Logging
	Verbose bool   `yaml:"verbose"`
	LogFile string `yaml:"log_file"`

	// Display
	Progress ProgressMode `yaml:"progress"`

	// Encoders
	JPEGQuality int `yaml:"jpeg_quality"`
	WebPQuality int `yaml:"webp_quality"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Workers:     4,
		Progress:    ProgressLog,
		JPEGQuality: 95,
		WebPQuality: 90,
	}
}

// LoadFile reads a YAML config file over the defaults. Unknown keys are an
// error. An empty file yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enum fields.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Workers)
	}
	switch c.Progress {
	case ProgressLog, ProgressBar:
		// valid
	default:
		return fmt.Errorf("invalid progress mode %q (use 'log' or 'bar')", c.Progress)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100 (got %d)", c.JPEGQuality)
	}
	if c.WebPQuality < 1 || c.WebPQuality > 100 {
		return fmt.Errorf("webp_quality must be between 1 and 100 (got %d)", c.WebPQuality)
	}
	return nil
}

// LogLevel returns the level implied by Verbose.
func (c *Config) LogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
