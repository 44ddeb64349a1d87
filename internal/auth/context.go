package auth

import "context"

// Admin is the identity the guard established for the current request.
type Admin struct {
	Name string
	Role string
}

type contextKey int

const adminContextKey contextKey = 1

func WithAdmin(ctx context.Context, admin Admin) context.Context {
	return context.WithValue(ctx, adminContextKey, admin)
}

func AdminFromContext(ctx context.Context) (Admin, bool) {
	admin, ok := ctx.Value(adminContextKey).(Admin)
	return admin, ok
}
