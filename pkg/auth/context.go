package auth

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// WithUser stores the acting user in ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// GetUser returns the acting user stored by the auth middleware.
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok && user != nil
}

// RequireUser returns the acting user or an error when the request is unauthenticated.
func RequireUser(ctx context.Context) (*models.User, error) {
	user, ok := GetUser(ctx)
	if !ok {
		return nil, fmt.Errorf("user not found in context")
	}
	return user, nil
}

// UserIDFromContext returns the acting user's ID, or nil outside an authenticated request.
// Activity rows written from seeds and tests carry no user.
func UserIDFromContext(ctx context.Context) *int64 {
	user, ok := GetUser(ctx)
	if !ok {
		return nil
	}
	id := user.ID
	return &id
}
