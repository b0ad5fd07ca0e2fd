package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("commandcore")

// SpanManager handles trace span lifecycle for a command's three pipeline
// stages: parse, classify, dispatch. Use NewSpanManager() for OTel tracing
// or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartCommandSpan starts a span for the full command lifecycle.
	StartCommandSpan(ctx context.Context, commandID string) (context.Context, trace.Span)

	// StartStageSpan starts a span for one pipeline stage (parse, classify,
	// dispatch). The stage span should be a child of the command span.
	StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

func (m *otelSpanManager) StartCommandSpan(ctx context.Context, commandID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "commandcore.command",
		trace.WithAttributes(attribute.String("command.id", commandID)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "commandcore."+stage,
		trace.WithAttributes(attribute.String("stage", stage)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Convenience functions operating on the global tracer, for callers that
// don't need a SpanManager instance.

func StartCommandSpan(ctx context.Context, commandID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "commandcore.command",
		trace.WithAttributes(attribute.String("command.id", commandID)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "commandcore."+stage,
		trace.WithAttributes(attribute.String("stage", stage)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
