package auth

import (
	"context"

	pkgerrors "onboardhq-backend/pkg/errors"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// UserContext is the authenticated caller attached to the request context
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
}

// HasRole reports whether the caller carries the given role
func (u UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// WithUser attaches the authenticated user to the context
func WithUser(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the authenticated user from the context
func GetUserFromContext(ctx context.Context) (UserContext, error) {
	user, ok := ctx.Value(userContextKey).(UserContext)
	if !ok || user.UserID == "" {
		return UserContext{}, pkgerrors.NewUnauthorizedError("no authenticated user in context")
	}
	return user, nil
}
