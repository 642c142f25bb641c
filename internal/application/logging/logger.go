package logging

import (
	"context"
	"io"
	"log/slog"
)

// Context keys for passing the logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a discarding logger if not found
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return discard
}

// Component returns the context logger tagged with a component name
func Component(ctx context.Context, name string) *slog.Logger {
	return LoggerFromContext(ctx).With("component", name)
}
