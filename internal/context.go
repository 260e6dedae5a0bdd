package internal

import (
	"context"
	"time"
)

type userIDKey struct{}

// ContextWithUserID records the authenticated user's id for downstream
// repository calls and audit logging.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	userID, _ := ctx.Value(userIDKey{}).(string)
	return userID
}

const defaultQueryTimeout = 5 * time.Second

// WithTimeout bounds a store call, substituting the default when the
// caller passes a zero or negative duration.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = defaultQueryTimeout
	}
	return context.WithTimeout(ctx, duration)
}
