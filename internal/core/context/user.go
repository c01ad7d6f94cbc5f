// Package context provides request-scoped values extraction.
package context

import (
	"context"

	"ledgerbook/internal/core/id"
)

// UserContext contains the acting user for an operation.
type UserContext struct {
	UserID      string
	Email       string
	Name        string
	Role        string
	BusinessIDs []id.ID // Businesses the user is assigned to (ignored for admin)
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}
