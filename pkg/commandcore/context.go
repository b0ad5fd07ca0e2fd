package commandcore

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type loggerKey struct{}

// contextWithLogger returns a context carrying logger, retrievable with
// loggerFromContext. Used to thread command-scoped fields (command_id,
// session_id) into the orchestrator's parse and classify stages. The
// dispatcher does not read it: its handler logs go through slog's default
// logger and carry no command_id or session_id.
func contextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// loggerFromContext returns the logger attached by contextWithLogger, or
// slog.Default() if none was attached.
func loggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// newCommandID generates a unique identifier for one ProcessCommand call.
func newCommandID() string {
	return uuid.NewString()
}
