package auth

import (
	"context"

	"ironhold/internal/model"
)

type ctxKey int

const userKey ctxKey = iota

// WithUser stores the authenticated user in a context.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}
