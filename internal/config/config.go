// Package config loads the repo-level qpool configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sowhat82/mockexamify/internal/dedup"
)

// DefaultPath is where qpool looks for its configuration when --config is
// not given.
const DefaultPath = ".qpool/config.yaml"

// DefaultDatabasePath is the SQLite database location used when the config
// file does not set one.
const DefaultDatabasePath = ".qpool/qpool.db"

// Config represents the qpool configuration loaded from YAML.
//
// Every field is optional; precedence is defaults, then the YAML file,
// then QPOOL_* environment variables.
type Config struct {
	// Database is the path to the SQLite pool store
	Database string `yaml:"database"`

	// DefaultPool is used when a command is run without --pool
	DefaultPool string `yaml:"default_pool"`

	// Strict makes every validation finding block a merge, warnings included
	Strict bool `yaml:"strict"`

	// Dedup overrides similarity-detector settings
	Dedup DedupYAMLConfig `yaml:"dedup"`

	// AI overrides model selection
	AI AIYAMLConfig `yaml:"ai"`
}

// DedupYAMLConfig represents similarity settings in the YAML config file.
// Pointer fields distinguish "unset" from an explicit zero. This is
// converted to dedup.Config for internal use.
type DedupYAMLConfig struct {
	ReviewThreshold        *float64 `yaml:"review_threshold,omitempty"`
	AutoDuplicateThreshold *float64 `yaml:"auto_duplicate_threshold,omitempty"`
	SampleCap              *int     `yaml:"sample_cap,omitempty"`
	MinTextLength          *int     `yaml:"min_text_length,omitempty"`
	PacingMS               *int     `yaml:"pacing_ms,omitempty"`
}

// AIYAMLConfig selects the models used for generation and scoring.
type AIYAMLConfig struct {
	Model        string `yaml:"model,omitempty"`
	ScoringModel string `yaml:"scoring_model,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: DefaultDatabasePath,
	}
}

// Load reads the configuration from a YAML file. A missing file is not an
// error; the defaults apply.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if config.Database == "" {
		config.Database = DefaultDatabasePath
	}

	return config, nil
}

// ToDedupConfig resolves the effective similarity-detector configuration:
// dedup defaults, then this file's overrides, then the environment.
func (c *Config) ToDedupConfig() (dedup.Config, error) {
	cfg := dedup.DefaultConfig()

	if c.Dedup.ReviewThreshold != nil {
		cfg.ReviewThreshold = *c.Dedup.ReviewThreshold
	}
	if c.Dedup.AutoDuplicateThreshold != nil {
		cfg.AutoDuplicateThreshold = *c.Dedup.AutoDuplicateThreshold
	}
	if c.Dedup.SampleCap != nil {
		cfg.SampleCap = *c.Dedup.SampleCap
	}
	if c.Dedup.MinTextLength != nil {
		cfg.MinTextLength = *c.Dedup.MinTextLength
	}
	if c.Dedup.PacingMS != nil {
		cfg.PacingInterval = time.Duration(*c.Dedup.PacingMS) * time.Millisecond
	}

	cfg, err := cfg.WithEnv()
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid dedup configuration: %w", err)
	}
	return cfg, nil
}
