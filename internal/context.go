package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextUserKey ctxKey = "sessionUser"

// SessionUser is the authenticated principal attached to a request context
// after the session cookie has been decoded.
type SessionUser struct {
	ID            int64
	Role          string
	EmailVerified bool
}

func UserFromContext(ctx context.Context) (*SessionUser, bool) {
	if ctx == nil {
		return nil, false
	}
	if u, ok := ctx.Value(ContextUserKey).(*SessionUser); ok && u != nil {
		return u, true
	}
	return nil, false
}

func ContextWithUser(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
