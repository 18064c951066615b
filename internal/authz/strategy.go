package authz

import (
	"context"

	"github.com/dangphu2412/handons-design-pattern/internal/auth"
)

// StrategyRoleKey identifies the built-in role-key strategy.
const StrategyRoleKey = "role-key"

// RoleKeyStrategy authorizes principals that hold a specific role key.
type RoleKeyStrategy struct {
	Key string
}

func (s RoleKeyStrategy) Authorize(ctx context.Context) error {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok || !principal.HasRoleKey(s.Key) {
		return ErrForbidden
	}
	return nil
}

// AllowAuthenticated authorizes any request with an authenticated principal.
type AllowAuthenticated struct{}

func (AllowAuthenticated) Authorize(ctx context.Context) error {
	if _, ok := auth.PrincipalFromContext(ctx); !ok {
		return ErrForbidden
	}
	return nil
}
