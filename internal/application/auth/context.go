package auth

import (
	"context"

	"github.com/andrescamacho/spaceconquest-go/internal/application/mediator"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/session"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// Context keys for passing authentication data through context
type authContextKey int

const (
	sessionKey authContextKey = iota + 1000 // Offset from logger keys
)

// WithSession injects the active session into the context
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext extracts the active session from context.
// Returns a *shared.NoSessionError if none is present or it is incomplete.
func SessionFromContext(ctx context.Context) (*session.Session, error) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	if !ok || !s.Valid() {
		return nil, shared.NewNoSessionError()
	}
	return s, nil
}

// Provider exposes the session currently held by the client
type Provider interface {
	Current() *session.Session
}

// SessionMiddleware injects the current session into every request's context,
// unless the caller already supplied one
func SessionMiddleware(provider Provider) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if _, err := SessionFromContext(ctx); err != nil {
			if current := provider.Current(); current.Valid() {
				ctx = WithSession(ctx, current)
			}
		}
		return next(ctx, request)
	}
}
