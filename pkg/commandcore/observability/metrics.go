package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records commandcore metrics: classification outcomes and
// confidence, dispatch latency, and handler outcomes. Use
// NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordClassification records one Classify call's outcome, source, and
	// confidence score.
	RecordClassification(ctx context.Context, eventType, source string, confidence float64, err error)

	// RecordDispatch records one Dispatch call's total latency and
	// resulting status.
	RecordDispatch(ctx context.Context, status string, duration time.Duration)

	// RecordHandlerInvocation records one handler invocation's latency and
	// outcome, tagged by whether it served the primary or a secondary event.
	RecordHandlerInvocation(ctx context.Context, module string, isSecondary bool, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	classifications metric.Int64Counter
	confidence      metric.Float64Histogram
	dispatchRuns    metric.Int64Counter
	dispatchLatency metric.Float64Histogram
	handlerInvokes  metric.Int64Counter
	handlerLatency  metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance, lazily
// initialized on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("commandcore")

	classifications, err := meter.Int64Counter("commandcore.classifications",
		metric.WithDescription("Number of Classify calls by event type, source, and outcome"),
	)
	if err != nil {
		return nil, err
	}

	confidence, err := meter.Float64Histogram("commandcore.classification.confidence",
		metric.WithDescription("Confidence score assigned to classified primary events"),
	)
	if err != nil {
		return nil, err
	}

	dispatchRuns, err := meter.Int64Counter("commandcore.dispatch.runs",
		metric.WithDescription("Number of Dispatch calls by resulting status"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("commandcore.dispatch.latency_ms",
		metric.WithDescription("Total Dispatch call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	handlerInvokes, err := meter.Int64Counter("commandcore.handler.invocations",
		metric.WithDescription("Number of handler invocations by module and outcome"),
	)
	if err != nil {
		return nil, err
	}

	handlerLatency, err := meter.Float64Histogram("commandcore.handler.latency_ms",
		metric.WithDescription("Per-handler invocation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		classifications: classifications,
		confidence:      confidence,
		dispatchRuns:    dispatchRuns,
		dispatchLatency: dispatchLatency,
		handlerInvokes:  handlerInvokes,
		handlerLatency:  handlerLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry. If
// metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordClassification(ctx context.Context, eventType, source string, confidence float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := []attribute.KeyValue{
		attribute.String("event_type", eventType),
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	}
	m.classifications.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err == nil {
		m.confidence.Record(ctx, confidence, metric.WithAttributes(attribute.String("event_type", eventType)))
	}
}

func (m *otelMetrics) RecordDispatch(ctx context.Context, status string, duration time.Duration) {
	attrs := []attribute.KeyValue{attribute.String("status", status)}
	m.dispatchRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dispatchLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

func (m *otelMetrics) RecordHandlerInvocation(ctx context.Context, module string, isSecondary bool, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := []attribute.KeyValue{
		attribute.String("module", module),
		attribute.Bool("is_secondary", isSecondary),
		attribute.String("outcome", outcome),
	}
	m.handlerInvokes.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.handlerLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
