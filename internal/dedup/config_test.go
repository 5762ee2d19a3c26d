package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.90, cfg.ReviewThreshold)
	assert.Equal(t, 0.95, cfg.AutoDuplicateThreshold)
	assert.Equal(t, 50, cfg.SampleCap)
	assert.Equal(t, time.Second, cfg.PacingInterval)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{name: "defaults", mutate: func(*Config) {}, valid: true},
		{name: "review threshold above one", mutate: func(c *Config) { c.ReviewThreshold = 1.1 }, valid: false},
		{name: "review threshold negative", mutate: func(c *Config) { c.ReviewThreshold = -0.1 }, valid: false},
		{name: "auto below review", mutate: func(c *Config) { c.AutoDuplicateThreshold = 0.5 }, valid: false},
		{name: "equal thresholds", mutate: func(c *Config) { c.AutoDuplicateThreshold = c.ReviewThreshold }, valid: true},
		{name: "zero sample cap", mutate: func(c *Config) { c.SampleCap = 0 }, valid: false},
		{name: "huge sample cap", mutate: func(c *Config) { c.SampleCap = 1000 }, valid: false},
		{name: "negative min text length", mutate: func(c *Config) { c.MinTextLength = -1 }, valid: false},
		{name: "zero pacing", mutate: func(c *Config) { c.PacingInterval = 0 }, valid: true},
		{name: "excessive pacing", mutate: func(c *Config) { c.PacingInterval = 2 * time.Minute }, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConfigClassification(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.IsAutoDuplicate(0.95))
	assert.False(t, cfg.IsAutoDuplicate(0.94))

	assert.True(t, cfg.NeedsReview(0.90))
	assert.True(t, cfg.NeedsReview(0.94))
	assert.False(t, cfg.NeedsReview(0.95), "auto duplicates skip the review queue")
	assert.False(t, cfg.NeedsReview(0.89))
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("overrides applied", func(t *testing.T) {
		t.Setenv("QPOOL_DEDUP_REVIEW_THRESHOLD", "0.80")
		t.Setenv("QPOOL_DEDUP_AUTO_THRESHOLD", "0.85")
		t.Setenv("QPOOL_DEDUP_SAMPLE_CAP", "25")
		t.Setenv("QPOOL_DEDUP_PACING_MS", "250")

		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, 0.80, cfg.ReviewThreshold)
		assert.Equal(t, 0.85, cfg.AutoDuplicateThreshold)
		assert.Equal(t, 25, cfg.SampleCap)
		assert.Equal(t, 250*time.Millisecond, cfg.PacingInterval)
	})

	t.Run("unset falls back to defaults", func(t *testing.T) {
		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("malformed value rejected", func(t *testing.T) {
		t.Setenv("QPOOL_DEDUP_SAMPLE_CAP", "many")
		_, err := ConfigFromEnv()
		assert.Error(t, err)
	})

	t.Run("inconsistent values rejected", func(t *testing.T) {
		t.Setenv("QPOOL_DEDUP_AUTO_THRESHOLD", "0.50")
		_, err := ConfigFromEnv()
		assert.Error(t, err)
	})
}
