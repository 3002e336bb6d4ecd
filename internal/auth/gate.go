package auth

import (
	"context"

	"github.com/frahmantamala/employee-directory/internal"
	"github.com/frahmantamala/employee-directory/internal/user"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

func ContextWithCaller(ctx context.Context, caller *user.User) context.Context {
	return context.WithValue(ctx, ContextUserKey, caller)
}

// CallerFromContext returns the user resolved for the request, or nil for an
// anonymous request.
func CallerFromContext(ctx context.Context) *user.User {
	if u, ok := ctx.Value(ContextUserKey).(*user.User); ok {
		return u
	}
	return nil
}

func RequireAuthenticated(caller *user.User) (*user.User, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	return caller, nil
}

func RequireAdmin(caller *user.User) (*user.User, error) {
	caller, err := RequireAuthenticated(caller)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		return nil, internal.ErrForbidden
	}
	return caller, nil
}
