package commandcore

import (
	"log/slog"

	"github.com/limos-platform/commandcore/pkg/commandcore/observability"
)

// runConfig holds the Orchestrator's observability wiring. Metrics and
// tracing default to no-ops and the logger to slog.Default(), so an
// Orchestrator built with zero Options still runs.
type runConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

func defaultRunConfig() runConfig {
	return runConfig{
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures an Orchestrator.
type Option func(*runConfig)

// WithLogger sets the base logger the Orchestrator enriches per command.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics installs a metrics recorder. Pass observability.NewMetricsRecorder()
// to record through the configured OpenTelemetry MeterProvider; omitting
// this option leaves metrics as a no-op.
func WithMetrics(recorder observability.MetricsRecorder) Option {
	return func(c *runConfig) {
		if recorder != nil {
			c.metrics = recorder
		}
	}
}

// WithTracing installs a span manager. Pass observability.NewSpanManager()
// to trace through the configured OpenTelemetry TracerProvider; omitting
// this option leaves tracing as a no-op.
func WithTracing(manager observability.SpanManager) Option {
	return func(c *runConfig) {
		if manager != nil {
			c.spans = manager
		}
	}
}
