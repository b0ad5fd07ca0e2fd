package errors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Category
	}{
		{"nil error", nil, CategoryPermanent},
		{"parser timeout", &ParserError{Kind: ParserTimeout}, CategoryTransient},
		{"parser unavailable", &ParserError{Kind: ParserUnavailable}, CategoryTransient},
		{"parser malformed", &ParserError{Kind: ParserMalformed}, CategoryPermanent},
		{"handler timeout", &HandlerTransientError{Kind: HandlerTimeout}, CategoryTransient},
		{"handler unavailable", &HandlerTransientError{Kind: HandlerUnavailable}, CategoryTransient},
		{"handler structured error", &HandlerError{Kind: "ledger_closed"}, CategoryPermanent},
		{"validation error", &ValidationError{EventType: "pump"}, CategoryPermanent},
		{"cancelled", &CancelledError{Err: context.Canceled}, CategoryPermanent},
		{"unknown error", errors.New("boom"), CategoryPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Categorize(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&ParserError{Kind: ParserTimeout}))
	assert.False(t, IsRetryable(&ParserError{Kind: ParserMalformed}))
	assert.False(t, IsRetryable(nil))
}

func TestWithRetryContext_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	cfg := RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, BackoffFactor: 1, MaxBackoff: time.Millisecond}

	result := WithRetryContext(context.Background(), cfg, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", &HandlerTransientError{Kind: HandlerTimeout}
		}
		return "ok", nil
	})

	assert.NoError(t, result.Err)
	assert.Equal(t, "ok", result.Value)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryContext_StopsOnPermanentError(t *testing.T) {
	attempts := 0
	cfg := RetryConfig{MaxAttempts: 5, InitialBackoff: time.Millisecond}

	result := WithRetryContext(context.Background(), cfg, func(ctx context.Context) (string, error) {
		attempts++
		return "", &ValidationError{EventType: "pump", Missing: []string{"cost"}}
	})

	assert.Error(t, result.Err)
	assert.Equal(t, 1, attempts)
}

func TestWithRetryContext_ExhaustsMaxAttempts(t *testing.T) {
	attempts := 0
	cfg := RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, BackoffFactor: 1, MaxBackoff: time.Millisecond}

	result := WithRetryContext(context.Background(), cfg, func(ctx context.Context) (string, error) {
		attempts++
		return "", &HandlerTransientError{Kind: HandlerUnavailable}
	})

	assert.Error(t, result.Err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryContext_RespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}
	result := WithRetryContext(ctx, cfg, func(ctx context.Context) (string, error) {
		return "should not run", nil
	})

	var cancelled *CancelledError
	assert.ErrorAs(t, result.Err, &cancelled)
}
