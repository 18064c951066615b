package auth

import "context"

// Directory persists users and their role assignments.
type Directory interface {
	// FindByUsername returns the user matching username, or nil when none
	// exists. Roles are attached only when withRoles is set.
	FindByUsername(ctx context.Context, username string, withRoles bool) (*User, error)
	// Create inserts a new user record, filling in ID and timestamps.
	// A concurrent duplicate registration surfaces as ErrDuplicateUsername.
	Create(ctx context.Context, user *User) error
	// ReplaceRoles sets the user's role assignments to exactly roles.
	ReplaceRoles(ctx context.Context, user *User, roles []Role) error
	// InTx runs fn against a directory view bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back on every
	// other exit path.
	InTx(ctx context.Context, fn func(tx Directory) error) error
}

// RoleCatalog resolves role metadata for a set of keys. Keys missing from
// the catalog are omitted from the result.
type RoleCatalog interface {
	FindByKeys(ctx context.Context, keys []string) ([]Role, error)
}

// RoleCache mirrors the role keys currently granted to a user into a
// fast-lookup store independent of the primary datastore. Set is an
// idempotent overwrite keyed by user id; last write wins.
type RoleCache interface {
	Set(ctx context.Context, userID string, keys RoleKeySet) error
}
