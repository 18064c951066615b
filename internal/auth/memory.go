package auth

import (
	"context"
	"sync"
	"time"

	"github.com/dangphu2412/handons-design-pattern/internal/ids"
)

var (
	_ Directory   = (*MemDirectory)(nil)
	_ RoleCatalog = (*MemDirectory)(nil)
)

// MemDirectory is an in-memory Directory and RoleCatalog. It backs tests and
// database-less runs of the service. InTx gives real rollback semantics by
// snapshotting state before fn runs and restoring it on error.
type MemDirectory struct {
	mu      sync.Mutex
	users   map[string]*User  // keyed by username
	roles   map[string][]Role // keyed by user id
	catalog []Role
}

// NewMemDirectory constructs a directory whose role catalog holds the
// default visitor role.
func NewMemDirectory() *MemDirectory {
	return &MemDirectory{
		users: make(map[string]*User),
		roles: make(map[string][]Role),
		catalog: []Role{
			{ID: ids.New(), Key: RoleKeyVisitor, Description: "Default role for new accounts", CreatedAt: time.Now().UTC()},
		},
	}
}

func (d *MemDirectory) FindByUsername(ctx context.Context, username string, withRoles bool) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	user, ok := d.users[username]
	if !ok {
		return nil, nil
	}
	out := *user
	if withRoles {
		out.Roles = append([]Role(nil), d.roles[user.ID]...)
	}
	return &out, nil
}

func (d *MemDirectory) Create(ctx context.Context, user *User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[user.Username]; ok {
		return ErrDuplicateUsername
	}
	if user.ID == "" {
		user.ID = ids.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	d.users[user.Username] = &stored
	return nil
}

func (d *MemDirectory) ReplaceRoles(ctx context.Context, user *User, roles []Role) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.roles[user.ID] = append([]Role(nil), roles...)
	return nil
}

func (d *MemDirectory) InTx(ctx context.Context, fn func(tx Directory) error) error {
	d.mu.Lock()
	users := make(map[string]*User, len(d.users))
	for k, v := range d.users {
		u := *v
		users[k] = &u
	}
	roles := make(map[string][]Role, len(d.roles))
	for k, v := range d.roles {
		roles[k] = append([]Role(nil), v...)
	}
	d.mu.Unlock()

	if err := fn(d); err != nil {
		d.mu.Lock()
		d.users = users
		d.roles = roles
		d.mu.Unlock()
		return err
	}
	return nil
}

func (d *MemDirectory) FindByKeys(ctx context.Context, keys []string) ([]Role, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Role
	for _, key := range keys {
		for _, role := range d.catalog {
			if role.Key == key {
				out = append(out, role)
			}
		}
	}
	return out, nil
}
