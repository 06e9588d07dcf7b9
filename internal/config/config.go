// Package config handles TOML configuration for wafcheck.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultRegion is used when neither configuration nor environment
// provide one.
const DefaultRegion = "us-east-1"

// Config is the root configuration structure.
type Config struct {
	AWS   AWSConfig   `toml:"aws"`
	OTEL  OTELConfig  `toml:"otel"`
	Sweep SweepConfig `toml:"sweep"`
	Log   LogConfig   `toml:"log"`
}

// AWSConfig holds AWS settings.
type AWSConfig struct {
	Region  string `toml:"region"`
	Profile string `toml:"profile"`
}

// OTELConfig holds OpenTelemetry settings.
type OTELConfig struct {
	Endpoint    string        `toml:"endpoint"`
	Insecure    bool          `toml:"insecure"`
	ServiceName string        `toml:"service_name"`
	Traces      TracesConfig  `toml:"traces"`
	Metrics     MetricsConfig `toml:"metrics"`
}

// TracesConfig holds tracing settings.
type TracesConfig struct {
	Enabled    bool    `toml:"enabled"`
	SampleRate float64 `toml:"sample_rate"`
}

// MetricsConfig holds metrics settings.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// SweepConfig holds periodic sweep settings.
type SweepConfig struct {
	IntervalStr string `toml:"interval"`
	Interval    time.Duration
	MetricsAddr string `toml:"metrics_addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Load reads and parses a TOML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)

	if err := parseInterval(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Sweep.Interval, _ = time.ParseDuration(cfg.Sweep.IntervalStr)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.OTEL.ServiceName == "" {
		cfg.OTEL.ServiceName = "wafcheck"
	}
	if cfg.Sweep.IntervalStr == "" {
		cfg.Sweep.IntervalStr = "1h"
	}
	if cfg.Sweep.MetricsAddr == "" {
		cfg.Sweep.MetricsAddr = ":9090"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func parseInterval(cfg *Config) error {
	d, err := time.ParseDuration(cfg.Sweep.IntervalStr)
	if err != nil {
		return fmt.Errorf("parse interval %q: %w", cfg.Sweep.IntervalStr, err)
	}
	cfg.Sweep.Interval = d
	return nil
}

// Validate checks the configuration is valid.
func (c *Config) Validate() error {
	if c.OTEL.Traces.SampleRate < 0.0 || c.OTEL.Traces.SampleRate > 1.0 {
		return fmt.Errorf("otel: traces.sample_rate must be between 0.0 and 1.0 (got %v)", c.OTEL.Traces.SampleRate)
	}
	if c.Sweep.Interval < time.Minute {
		return fmt.Errorf("sweep: interval must be at least 1m (got %v)", c.Sweep.Interval)
	}
	return nil
}

// ResolveRegion resolves the region to sweep: explicit value first, then
// the AWS_REGION environment variable, read once, then DefaultRegion.
func ResolveRegion(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("AWS_REGION"); env != "" {
		return env
	}
	return DefaultRegion
}
