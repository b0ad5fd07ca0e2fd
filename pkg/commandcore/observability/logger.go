// Package observability provides the logging, metrics, and tracing this
// module carries regardless of which domain features are in scope:
//
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// Metrics and tracing are opt-in and have no-op implementations when
// disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger returns a new logger carrying command_id, event_type, and
// module fields, so a single log call at any pipeline stage picks up the
// full trail without every call site repeating them.
func EnrichLogger(logger *slog.Logger, commandID, eventType, module string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("command_id", commandID),
		slog.String("event_type", eventType),
		slog.String("module", module),
	)
}

// LogCommandStart logs the start of command processing.
func LogCommandStart(logger *slog.Logger, commandID, utterance string) {
	if logger == nil {
		return
	}
	logger.Info("command processing starting",
		slog.String("command_id", commandID),
		slog.String("utterance", utterance),
	)
}

// LogCommandComplete logs successful command processing.
func LogCommandComplete(logger *slog.Logger, commandID, status string, durationMs float64, eventsProcessed int) {
	if logger == nil {
		return
	}
	logger.Info("command processing completed",
		slog.String("command_id", commandID),
		slog.String("status", status),
		slog.Float64("duration_ms", durationMs),
		slog.Int("events_processed", eventsProcessed),
	)
}

// LogCommandError logs a fatal command failure.
func LogCommandError(logger *slog.Logger, commandID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("command processing failed",
		slog.String("command_id", commandID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogParserCall logs a Parser Client call outcome. err is nil on success.
func LogParserCall(logger *slog.Logger, commandID string, durationMs float64, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Warn("parser call failed",
			slog.String("command_id", commandID),
			slog.Float64("duration_ms", durationMs),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Debug("parser call completed",
		slog.String("command_id", commandID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogHandlerInvocation logs one handler invocation attempt.
func LogHandlerInvocation(logger *slog.Logger, eventType, module string, attempt int, durationMs float64, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Error("handler invocation failed",
			slog.String("event_type", eventType),
			slog.String("module", module),
			slog.Int("attempt", attempt),
			slog.Float64("duration_ms", durationMs),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Info("handler invocation completed",
		slog.String("event_type", eventType),
		slog.String("module", module),
		slog.Int("attempt", attempt),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogRetryBackoff logs a retry backoff sleep (a suspension point per the
// concurrency model).
func LogRetryBackoff(logger *slog.Logger, eventType string, attempt int, backoffMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("retrying after backoff",
		slog.String("event_type", eventType),
		slog.Int("attempt", attempt),
		slog.Float64("backoff_ms", backoffMs),
	)
}

// TimedOperation measures the duration of an operation. Returns a function
// that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
