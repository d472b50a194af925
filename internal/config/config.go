// Package config loads and validates the aureus engine configuration.
// Configuration lives in .aureus/config.yaml inside the workspace; missing
// files fall back to defaults so the engine always starts.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all aureus configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Pricing configuration (SPK)
	Pricing PricingConfig `yaml:"pricing"`

	// Value function configuration
	Values ValuesConfig `yaml:"values"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// PricingConfig configures the linear cost model and budget thresholds.
type PricingConfig struct {
	LOCWeight         float64 `yaml:"loc_weight"`
	DependencyWeight  float64 `yaml:"dependency_weight"`
	AbstractionWeight float64 `yaml:"abstraction_weight"`

	AdvisoryThreshold  float64 `yaml:"advisory_threshold"`
	WarningThreshold   float64 `yaml:"warning_threshold"`
	RejectionThreshold float64 `yaml:"rejection_threshold"`
}

// ValuesConfig configures the persisted global value state.
type ValuesConfig struct {
	// DatabasePath is relative to the workspace unless absolute.
	DatabasePath string `yaml:"database_path"`

	// Ring buffer caps for persisted history.
	AlignmentHistoryLimit int `yaml:"alignment_history_limit"`
	DriftEventLimit       int `yaml:"drift_event_limit"`
}

// LoggingConfig configures categorized file logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
	JSONFormat bool            `yaml:"json_format"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "aureus",
		Version: "1.0",
		Pricing: PricingConfig{
			LOCWeight:          1.0,
			DependencyWeight:   50.0,
			AbstractionWeight:  20.0,
			AdvisoryThreshold:  0.70,
			WarningThreshold:   0.85,
			RejectionThreshold: 1.00,
		},
		Values: ValuesConfig{
			DatabasePath:          filepath.Join(".aureus", "global_value_memory.db"),
			AlignmentHistoryLimit: 100,
			DriftEventLimit:       50,
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// ConfigPath returns the config file location for a workspace.
func ConfigPath(workspace string) string {
	return filepath.Join(workspace, ".aureus", "config.yaml")
}

// Load reads the config file for the workspace, merging it over defaults.
// A missing file is not an error; the defaults are returned.
func Load(workspace string) (*Config, error) {
	cfg := DefaultConfig()

	path := ConfigPath(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the workspace config path.
func Save(workspace string, cfg *Config) error {
	path := ConfigPath(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	p := c.Pricing
	if p.LOCWeight < 0 || p.DependencyWeight < 0 || p.AbstractionWeight < 0 {
		return fmt.Errorf("pricing weights must be non-negative")
	}
	if p.AdvisoryThreshold <= 0 || p.WarningThreshold <= p.AdvisoryThreshold ||
		p.RejectionThreshold <= p.WarningThreshold {
		return fmt.Errorf("pricing thresholds must satisfy 0 < advisory < warning < rejection")
	}
	if c.Values.AlignmentHistoryLimit <= 0 {
		return fmt.Errorf("values.alignment_history_limit must be positive")
	}
	if c.Values.DriftEventLimit <= 0 {
		return fmt.Errorf("values.drift_event_limit must be positive")
	}
	return nil
}

// DatabasePath resolves the value store path against the workspace.
func (c *Config) DatabasePath(workspace string) string {
	if filepath.IsAbs(c.Values.DatabasePath) {
		return c.Values.DatabasePath
	}
	return filepath.Join(workspace, c.Values.DatabasePath)
}
