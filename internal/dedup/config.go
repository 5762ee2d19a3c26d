package dedup

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration for the similarity detector.
type Config struct {
	// ReviewThreshold is the minimum similarity score (0.0-1.0) at which a
	// pair is flagged for manual review.
	// Higher values = fewer flags, more semantic duplicates slip through
	// Lower values = more flags, more operator time spent on false positives
	// Default: 0.90
	ReviewThreshold float64

	// AutoDuplicateThreshold is the minimum similarity score at which a
	// candidate is safe to skip without human review. Must be >= ReviewThreshold.
	// Default: 0.95 (only near-verbatim rewordings are auto-skipped)
	AutoDuplicateThreshold float64

	// SampleCap is the maximum number of existing questions to compare a
	// candidate against. Pools larger than this are sampled uniformly at
	// random; misses against unsampled questions are an accepted trade-off
	// for bounded API cost.
	// Default: 50
	SampleCap int

	// MinTextLength is the minimum question-text length to attempt
	// similarity scoring. Very short texts lack semantic signal.
	// Default: 10 characters
	MinTextLength int

	// PacingInterval is the delay between consecutive scoring calls.
	// Cooperative pacing to stay under provider rate limits, not
	// concurrency control. Zero disables pacing (tests).
	// Default: 1 second
	PacingInterval time.Duration
}

// DefaultConfig returns the default similarity configuration.
//
// These defaults are chosen to:
// - Keep false positives out of the auto-skip path (high auto threshold)
// - Surface borderline pairs to a human instead of guessing (review band)
// - Keep API costs bounded on large pools (sample cap)
func DefaultConfig() Config {
	return Config{
		ReviewThreshold:        0.90,
		AutoDuplicateThreshold: 0.95,
		SampleCap:              50,
		MinTextLength:          10,
		PacingInterval:         time.Second,
	}
}

// Validate checks if the configuration has valid values.
func (c Config) Validate() error {
	if c.ReviewThreshold < 0.0 || c.ReviewThreshold > 1.0 {
		return fmt.Errorf("review_threshold must be between 0.0 and 1.0 (got %.2f)",
			c.ReviewThreshold)
	}
	if c.AutoDuplicateThreshold < 0.0 || c.AutoDuplicateThreshold > 1.0 {
		return fmt.Errorf("auto_duplicate_threshold must be between 0.0 and 1.0 (got %.2f)",
			c.AutoDuplicateThreshold)
	}
	if c.AutoDuplicateThreshold < c.ReviewThreshold {
		return fmt.Errorf("auto_duplicate_threshold (%.2f) cannot be below review_threshold (%.2f)",
			c.AutoDuplicateThreshold, c.ReviewThreshold)
	}
	if c.SampleCap <= 0 {
		return fmt.Errorf("sample_cap must be positive (got %d)", c.SampleCap)
	}
	if c.SampleCap > 500 {
		return fmt.Errorf("sample_cap too large (got %d, max 500)", c.SampleCap)
	}
	if c.MinTextLength < 0 {
		return fmt.Errorf("min_text_length cannot be negative (got %d)", c.MinTextLength)
	}
	if c.PacingInterval < 0 {
		return fmt.Errorf("pacing_interval cannot be negative (got %v)", c.PacingInterval)
	}
	if c.PacingInterval > time.Minute {
		return fmt.Errorf("pacing_interval too large (got %v, max 1 minute)", c.PacingInterval)
	}
	return nil
}

// IsAutoDuplicate reports whether a score is high enough to skip the
// candidate without human review.
func (c Config) IsAutoDuplicate(score float64) bool {
	return score >= c.AutoDuplicateThreshold
}

// NeedsReview reports whether a score falls in the band that should be
// triaged by an operator: flagged as similar, but not high enough to
// auto-skip.
func (c Config) NeedsReview(score float64) bool {
	return score >= c.ReviewThreshold && score < c.AutoDuplicateThreshold
}

// String returns a human-readable representation of the config.
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Review: %.2f, AutoDup: %.2f, SampleCap: %d, MinTextLen: %d, Pacing: %v}",
		c.ReviewThreshold, c.AutoDuplicateThreshold, c.SampleCap, c.MinTextLength,
		c.PacingInterval,
	)
}

// ConfigFromEnv creates a Config from environment variables, falling back
// to defaults.
//
// Environment variables:
//   - QPOOL_DEDUP_REVIEW_THRESHOLD: Minimum score (0.0-1.0) to flag for review (default: 0.90)
//   - QPOOL_DEDUP_AUTO_THRESHOLD: Minimum score to auto-skip (default: 0.95)
//   - QPOOL_DEDUP_SAMPLE_CAP: Maximum existing questions to compare against (default: 50)
//   - QPOOL_DEDUP_MIN_TEXT_LENGTH: Minimum text length for scoring (default: 10)
//   - QPOOL_DEDUP_PACING_MS: Delay between scoring calls in milliseconds (default: 1000)
//
// Returns an error if any environment variable has an invalid value.
func ConfigFromEnv() (Config, error) {
	cfg, err := DefaultConfig().WithEnv()
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}
	return cfg, nil
}

// WithEnv returns a copy of the config with environment-variable overrides
// applied, without validating the result. Config-file settings load first;
// the environment wins.
func (c Config) WithEnv() (Config, error) {
	cfg := c

	if err := parseEnvFloat("QPOOL_DEDUP_REVIEW_THRESHOLD", &cfg.ReviewThreshold); err != nil {
		return cfg, err
	}
	if err := parseEnvFloat("QPOOL_DEDUP_AUTO_THRESHOLD", &cfg.AutoDuplicateThreshold); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("QPOOL_DEDUP_SAMPLE_CAP", &cfg.SampleCap); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("QPOOL_DEDUP_MIN_TEXT_LENGTH", &cfg.MinTextLength); err != nil {
		return cfg, err
	}
	if err := parseEnvDuration("QPOOL_DEDUP_PACING_MS", &cfg.PacingInterval, time.Millisecond); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// parseEnvFloat parses a float64 from an environment variable.
func parseEnvFloat(key string, dest *float64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvInt parses an int from an environment variable.
func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvDuration parses a duration from an environment variable, where
// the variable holds a count of the given unit.
func parseEnvDuration(key string, dest *time.Duration, unit time.Duration) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = time.Duration(parsed) * unit
	return nil
}
