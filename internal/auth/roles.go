package auth

import (
	"context"
	"fmt"
)

// RoleKeyVisitor is the default role granted to every new account.
const RoleKeyVisitor = "VISITOR"

// RoleResolver decides which roles a newly registered user receives.
type RoleResolver interface {
	NewUserRoles(ctx context.Context) ([]Role, error)
}

// CatalogResolver resolves the default role set from the role catalog.
type CatalogResolver struct {
	Catalog RoleCatalog
}

func (r CatalogResolver) NewUserRoles(ctx context.Context) ([]Role, error) {
	roles, err := r.Catalog.FindByKeys(ctx, []string{RoleKeyVisitor})
	if err != nil {
		return nil, fmt.Errorf("resolve new user roles: %w", err)
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("resolve new user roles: role %s missing from catalog", RoleKeyVisitor)
	}
	return roles, nil
}
