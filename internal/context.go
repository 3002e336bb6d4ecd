package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextCallerKey ctxKey = "caller"

// CallerInfo is the minimal identity copied into the request context for
// logging and metrics. Authorization decisions use the full user record
// resolved by the auth package, never this value.
type CallerInfo struct {
	UserID string
	Role   string
}

// Anonymous reports whether no caller was resolved for the request.
func (c CallerInfo) Anonymous() bool {
	return c.UserID == ""
}

func CallerInfoFromContext(ctx context.Context) CallerInfo {
	if ctx == nil {
		return CallerInfo{}
	}
	if info, ok := ctx.Value(ContextCallerKey).(CallerInfo); ok {
		return info
	}
	return CallerInfo{}
}

func ContextWithCallerInfo(ctx context.Context, info CallerInfo) context.Context {
	return context.WithValue(ctx, ContextCallerKey, info)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
