package auth

import "context"

type principalContextKey struct{}

// Principal is the authenticated identity attached to request contexts by
// the HTTP layer after access-token verification.
type Principal struct {
	UserID   string
	RoleKeys RoleKeySet
}

// HasRoleKey reports whether the principal currently holds key.
func (p Principal) HasRoleKey(key string) bool {
	return p.RoleKeys[key]
}

// ContextWithPrincipal attaches the authenticated principal to the context.
func ContextWithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &principal)
}

// PrincipalFromContext extracts the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || v == nil {
		return Principal{}, false
	}
	return *v, true
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok || principal.UserID == "" {
		return "", false
	}
	return principal.UserID, true
}
