package auth

import (
	"context"
	"errors"
	"time"
)

type contextKey string

const userContextKey contextKey = "user_context"

// UserContext carries the authenticated user's identity
type UserContext struct {
	UserID          string
	AuthenticatedAt time.Time
}

// ErrNoUserContext is returned when a request has no authenticated user
var ErrNoUserContext = errors.New("no user context in request")

// WithUserContext attaches the user context to a request context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the authenticated user from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, ErrNoUserContext
	}
	return user, nil
}
