package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// With stores a logger enriched with fields in ctx. Fields accumulate across
// nested calls.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, contextKey{}, From(ctx).With(fields...))
}

// WithRequestID tags every later log line of the request with its id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return With(ctx, "request_id", requestID)
}

// WithCaller tags log lines with the authenticated user.
func WithCaller(ctx context.Context, userID, role string) context.Context {
	return With(ctx, "user_id", userID, "role", role)
}

// From returns the request logger, falling back to the process logger.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return l
	}
	if l := LoggerWrapper(); l != nil {
		return l
	}
	return slog.Default()
}
