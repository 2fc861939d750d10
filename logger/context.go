package logger

import (
	"context"
	"io"
	"log/slog"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

// Logger context keys
const (
	LoggerKey ContextKey = "logger"
)

// FromContext retrieves the logger from the context
// If no logger is found, it returns the default logger
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// WithSessionID adds a resolver session ID to the logger in the context
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	logger := FromContext(ctx)
	return WithLogger(ctx, logger.With("session_id", sessionID))
}

// WithComponent tags every record logged through ctx with the component name
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx)
	return WithLogger(ctx, logger.With("component", component))
}

// Discard returns a context whose logger drops everything. Used by tests.
func Discard(ctx context.Context) context.Context {
	return WithLogger(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
