package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// With stores a child logger carrying the given fields in the context.
// Downstream code retrieves it with From, so per-request fields like
// the trace id follow the request without threading a logger through
// every call.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

// From returns the context's logger, falling back to the process
// default when none was attached.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
