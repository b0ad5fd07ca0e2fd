package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics discards every recorded measurement. Used when metric
// instrument registration fails at startup.
type NoopMetrics struct{}

func (NoopMetrics) RecordClassification(context.Context, string, string, float64, error)        {}
func (NoopMetrics) RecordDispatch(context.Context, string, time.Duration)                       {}
func (NoopMetrics) RecordHandlerInvocation(context.Context, string, bool, time.Duration, error) {}

// NoopSpanManager discards every span. Useful for tests that don't want a
// tracer provider wired up.
type NoopSpanManager struct{}

func (NoopSpanManager) StartCommandSpan(ctx context.Context, commandID string) (context.Context, trace.Span) {
	return ctx, noop.Span{}
}

func (NoopSpanManager) StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	return ctx, noop.Span{}
}

func (NoopSpanManager) EndSpanWithError(trace.Span, error) {}

func (NoopSpanManager) AddSpanEvent(context.Context, string, ...attribute.KeyValue) {}
