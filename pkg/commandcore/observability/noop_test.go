package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetrics_ImplementsInterface(t *testing.T) {
	var _ MetricsRecorder = NoopMetrics{}
}

func TestNoopMetrics_RecordClassification(t *testing.T) {
	m := NoopMetrics{}

	t.Run("does not panic on success", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordClassification(context.Background(), "pump", "keyword", 0.85, nil)
		})
	})

	t.Run("does not panic on error", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordClassification(context.Background(), "pump", "keyword", 0, errors.New("test"))
		})
	})

	t.Run("does not panic with nil context", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordClassification(nil, "", "", 0, nil)
		})
	})
}

func TestNoopMetrics_RecordDispatch(t *testing.T) {
	m := NoopMetrics{}

	t.Run("does not panic with ok status", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordDispatch(context.Background(), "ok", 50*time.Millisecond)
		})
	})

	t.Run("does not panic with error status", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordDispatch(context.Background(), "error", 0)
		})
	})
}

func TestNoopMetrics_RecordHandlerInvocation(t *testing.T) {
	m := NoopMetrics{}

	t.Run("does not panic with valid args", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordHandlerInvocation(context.Background(), "fleet", false, 10*time.Millisecond, nil)
		})
	})

	t.Run("does not panic with error", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.RecordHandlerInvocation(context.Background(), "fleet", true, 10*time.Millisecond, errors.New("unavailable"))
		})
	})
}

func TestNoopSpanManager_ImplementsInterface(t *testing.T) {
	var _ SpanManager = NoopSpanManager{}
}

func TestNoopSpanManager_StartCommandSpan(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("returns same context", func(t *testing.T) {
		ctx := context.Background()
		newCtx, span := sm.StartCommandSpan(ctx, "cmd-1")

		assert.Equal(t, ctx, newCtx)
		assert.NotNil(t, span)
	})

	t.Run("span is not recording", func(t *testing.T) {
		_, span := sm.StartCommandSpan(context.Background(), "cmd-1")
		assert.False(t, span.IsRecording())
	})
}

func TestNoopSpanManager_StartStageSpan(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("returns same context", func(t *testing.T) {
		ctx := context.Background()
		newCtx, span := sm.StartStageSpan(ctx, "classify")

		assert.Equal(t, ctx, newCtx)
		assert.NotNil(t, span)
	})
}

func TestNoopSpanManager_EndSpanWithError(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("does not panic with nil error", func(t *testing.T) {
		_, span := sm.StartCommandSpan(context.Background(), "cmd")
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(span, nil)
		})
	})

	t.Run("does not panic with error", func(t *testing.T) {
		_, span := sm.StartCommandSpan(context.Background(), "cmd")
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(span, errors.New("test error"))
		})
	})
}

func TestNoopSpanManager_AddSpanEvent(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("does not panic with attributes", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.AddSpanEvent(context.Background(), "test_event", attribute.String("key", "value"))
		})
	})

	t.Run("does not panic with no attributes", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.AddSpanEvent(context.Background(), "test_event")
		})
	})
}

func TestNoopImplementations_NoSideEffects(t *testing.T) {
	metrics := NoopMetrics{}
	spans := NoopSpanManager{}

	ctx := context.Background()
	ctx, cmdSpan := spans.StartCommandSpan(ctx, "cmd-123")

	for i, stage := range []string{"parse", "classify", "dispatch"} {
		stageCtx, stageSpan := spans.StartStageSpan(ctx, stage)

		start := time.Now()
		time.Sleep(time.Millisecond)
		duration := time.Since(start)

		var err error
		if i == 0 {
			err = errors.New("parser unavailable")
		}

		metrics.RecordHandlerInvocation(stageCtx, "fleet", false, duration, err)
		spans.EndSpanWithError(stageSpan, err)
	}

	metrics.RecordDispatch(ctx, "ok", 10*time.Millisecond)
	spans.EndSpanWithError(cmdSpan, nil)
}
