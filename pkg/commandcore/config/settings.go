package config

import "time"

// Settings is the typed view over this module's nine configuration keys
// (spec §6). Build one with FromConfig, or use DefaultSettings() to get
// the enumerated defaults untouched.
type Settings struct {
	// ParserTimeout bounds a single Parser Client call (parser.timeout_ms).
	ParserTimeout time.Duration

	// PrimaryRetryAttempts is the max attempts (including the first) for
	// the primary handler (dispatch.primary_retry, expressed here as a
	// retry count plus one).
	PrimaryRetryAttempts int
	// SecondaryRetryAttempts is the same, for secondary handlers
	// (dispatch.secondary_retry).
	SecondaryRetryAttempts int

	// BackoffInitial is the first retry's backoff duration
	// (dispatch.backoff_initial_ms).
	BackoffInitial time.Duration
	// BackoffFactor multiplies the backoff after each failed attempt
	// (dispatch.backoff_factor).
	BackoffFactor float64
	// BackoffMax caps the backoff duration (dispatch.backoff_max_ms).
	BackoffMax time.Duration

	// MaxParallel bounds concurrent secondary handler invocations
	// (dispatch.max_parallel).
	MaxParallel int

	// MinConfidence is the floor below which a classification is rejected
	// (classifier.min_confidence), except when reconciliation source is
	// "merged".
	MinConfidence float64
	// SecondaryConfidencePenalty is subtracted from the primary's
	// confidence for each secondary event
	// (classifier.secondary_confidence_penalty).
	SecondaryConfidencePenalty float64
}

// DefaultSettings returns the spec's enumerated defaults.
func DefaultSettings() Settings {
	return Settings{
		ParserTimeout:              2000 * time.Millisecond,
		PrimaryRetryAttempts:       3, // 2 retries after the initial attempt
		SecondaryRetryAttempts:     2, // 1 retry after the initial attempt
		BackoffInitial:             100 * time.Millisecond,
		BackoffFactor:              2.0,
		BackoffMax:                 1000 * time.Millisecond,
		MaxParallel:                8,
		MinConfidence:              0.5,
		SecondaryConfidencePenalty: 0.05,
	}
}

// FromConfig overlays cfg's keys onto DefaultSettings, leaving any key cfg
// doesn't set at its default.
func FromConfig(cfg Config) Settings {
	s := DefaultSettings()

	s.ParserTimeout = cfg.Duration("parser.timeout_ms", s.ParserTimeout)

	s.PrimaryRetryAttempts = cfg.Int("dispatch.primary_retry", s.PrimaryRetryAttempts-1) + 1
	s.SecondaryRetryAttempts = cfg.Int("dispatch.secondary_retry", s.SecondaryRetryAttempts-1) + 1

	s.BackoffInitial = cfg.Duration("dispatch.backoff_initial_ms", s.BackoffInitial)
	s.BackoffFactor = cfg.Float("dispatch.backoff_factor", s.BackoffFactor)
	s.BackoffMax = cfg.Duration("dispatch.backoff_max_ms", s.BackoffMax)

	s.MaxParallel = cfg.Int("dispatch.max_parallel", s.MaxParallel)

	s.MinConfidence = cfg.Float("classifier.min_confidence", s.MinConfidence)
	s.SecondaryConfidencePenalty = cfg.Float("classifier.secondary_confidence_penalty", s.SecondaryConfidencePenalty)

	return s
}
