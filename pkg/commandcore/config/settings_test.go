package config_test

import (
	"testing"
	"time"

	"github.com/limos-platform/commandcore/pkg/commandcore/config"
	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := config.DefaultSettings()

	assert.Equal(t, 2000*time.Millisecond, s.ParserTimeout)
	assert.Equal(t, 3, s.PrimaryRetryAttempts)
	assert.Equal(t, 2, s.SecondaryRetryAttempts)
	assert.Equal(t, 100*time.Millisecond, s.BackoffInitial)
	assert.Equal(t, 2.0, s.BackoffFactor)
	assert.Equal(t, 1000*time.Millisecond, s.BackoffMax)
	assert.Equal(t, 8, s.MaxParallel)
	assert.Equal(t, 0.5, s.MinConfidence)
	assert.Equal(t, 0.05, s.SecondaryConfidencePenalty)
}

func TestFromConfig_OverlaysProvidedKeys(t *testing.T) {
	cfg := config.New(map[string]any{
		"parser.timeout_ms":                       3000,
		"dispatch.primary_retry":                  4,
		"dispatch.secondary_retry":                0,
		"dispatch.backoff_initial_ms":             250,
		"dispatch.backoff_factor":                 1.5,
		"dispatch.backoff_max_ms":                 5000,
		"dispatch.max_parallel":                   16,
		"classifier.min_confidence":                0.7,
		"classifier.secondary_confidence_penalty": 0.1,
	})

	s := config.FromConfig(cfg)

	assert.Equal(t, 3000*time.Millisecond, s.ParserTimeout)
	assert.Equal(t, 5, s.PrimaryRetryAttempts)
	assert.Equal(t, 1, s.SecondaryRetryAttempts)
	assert.Equal(t, 250*time.Millisecond, s.BackoffInitial)
	assert.Equal(t, 1.5, s.BackoffFactor)
	assert.Equal(t, 5000*time.Millisecond, s.BackoffMax)
	assert.Equal(t, 16, s.MaxParallel)
	assert.Equal(t, 0.7, s.MinConfidence)
	assert.Equal(t, 0.1, s.SecondaryConfidencePenalty)
}

func TestFromConfig_EmptyConfigMatchesDefaults(t *testing.T) {
	s := config.FromConfig(config.New(nil))
	assert.Equal(t, config.DefaultSettings(), s)
}

func TestFromConfig_PartialOverlayKeepsOtherDefaults(t *testing.T) {
	cfg := config.New(map[string]any{"classifier.min_confidence": 0.8})
	s := config.FromConfig(cfg)

	assert.Equal(t, 0.8, s.MinConfidence)
	assert.Equal(t, config.DefaultSettings().MaxParallel, s.MaxParallel)
	assert.Equal(t, config.DefaultSettings().ParserTimeout, s.ParserTimeout)
}
