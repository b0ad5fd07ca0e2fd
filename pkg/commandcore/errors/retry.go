package errors

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryConfig configures exponential-backoff retry behavior (spec §6:
// dispatch.primary_retry, dispatch.secondary_retry, backoff_initial_ms,
// backoff_factor, backoff_max_ms).
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int
	// InitialBackoff is the starting backoff duration.
	InitialBackoff time.Duration
	// MaxBackoff caps the backoff duration.
	MaxBackoff time.Duration
	// BackoffFactor multiplies the backoff after each failed attempt.
	BackoffFactor float64
	// Jitter is the random jitter fraction applied to each backoff (0-1).
	Jitter float64
	// RetryableFunc overrides the default IsRetryable check when set.
	RetryableFunc func(error) bool
}

// PrimaryRetry is the default retry policy for a command's primary handler
// (spec: dispatch.primary_retry = 2, i.e. up to two retries after the
// initial attempt).
var PrimaryRetry = RetryConfig{
	MaxAttempts:    3,
	InitialBackoff: 100 * time.Millisecond,
	MaxBackoff:     1000 * time.Millisecond,
	BackoffFactor:  2.0,
	Jitter:         0.1,
}

// SecondaryRetry is the default retry policy for secondary handlers
// (dispatch.secondary_retry = 1, one retry after the initial attempt).
var SecondaryRetry = RetryConfig{
	MaxAttempts:    2,
	InitialBackoff: 100 * time.Millisecond,
	MaxBackoff:     1000 * time.Millisecond,
	BackoffFactor:  2.0,
	Jitter:         0.1,
}

// RetryResult carries the outcome of a retried operation.
type RetryResult[T any] struct {
	Value    T
	Err      error
	Attempts int
	Duration time.Duration
}

// WithRetryContext runs fn with retries per cfg, respecting ctx
// cancellation at every attempt boundary and during backoff sleeps.
func WithRetryContext[T any](ctx context.Context, cfg RetryConfig, fn func(context.Context) (T, error)) RetryResult[T] {
	start := time.Now()
	backoff := cfg.InitialBackoff

	isRetryable := cfg.RetryableFunc
	if isRetryable == nil {
		isRetryable = IsRetryable
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return RetryResult[T]{
				Err:      &CancelledError{Stage: "retry", Err: err},
				Attempts: attempt,
				Duration: time.Since(start),
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return RetryResult[T]{Value: result, Attempts: attempt + 1, Duration: time.Since(start)}
		}
		lastErr = err

		if !isRetryable(err) {
			return RetryResult[T]{Err: err, Attempts: attempt + 1, Duration: time.Since(start)}
		}

		if attempt < maxAttempts-1 {
			sleep := jittered(backoff, cfg.Jitter)
			select {
			case <-ctx.Done():
				return RetryResult[T]{
					Err:      &CancelledError{Stage: "retry backoff", Err: ctx.Err()},
					Attempts: attempt + 1,
					Duration: time.Since(start),
				}
			case <-time.After(sleep):
			}

			backoff = time.Duration(float64(backoff) * cfg.BackoffFactor)
			if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
				backoff = cfg.MaxBackoff
			}
		}
	}

	return RetryResult[T]{Err: lastErr, Attempts: maxAttempts, Duration: time.Since(start)}
}

// jittered applies +/- jitter fraction of base, never returning a negative
// duration.
func jittered(base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return base
	}
	delta := float64(base) * jitter * (rand.Float64()*2 - 1)
	d := time.Duration(float64(base) + delta)
	if d < 0 {
		return 0
	}
	return d
}
