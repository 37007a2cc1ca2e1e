// Package reqctx carries request-scoped values (request id, authenticated
// user) through context.Context.
package reqctx

import (
	"context"

	"github.com/ErlanBelekov/devconnect/internal/domain"
	"github.com/google/uuid"
)

type requestIDKey struct{}

type userKey struct{}

// NewRequestID generates a random UUID v4 request ID.
func NewRequestID() string {
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns "" if ctx carries no request ID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithUser attaches the identity resolved by the authentication gate.
// The stored copy never carries a password hash.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user.Public())
}

// User returns the authenticated user, or false outside a protected route.
func User(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey{}).(*domain.User)
	return u, ok && u != nil
}

// UserID is a convenience for log enrichment.
func UserID(ctx context.Context) string {
	if u, ok := User(ctx); ok {
		return u.ID
	}
	return ""
}
