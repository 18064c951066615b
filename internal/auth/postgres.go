package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dangphu2412/handons-design-pattern/internal/ids"
)

const pgErrUniqueViolation = "23505"

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Directory   = (*PGDirectory)(nil)
	_ RoleCatalog = (*PGDirectory)(nil)
)

// PGDirectory implements Directory and RoleCatalog on PostgreSQL.
type PGDirectory struct {
	db *sql.DB
	q  dbtx
}

// NewPGDirectory wraps an open database handle.
func NewPGDirectory(db *sql.DB) *PGDirectory {
	return &PGDirectory{db: db, q: db}
}

func (d *PGDirectory) FindByUsername(ctx context.Context, username string, withRoles bool) (*User, error) {
	row := d.q.QueryRowContext(ctx,
		`select id, username, password_hash, created_at, updated_at from users where username=$1`, username)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if withRoles {
		roles, err := d.rolesForUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		u.Roles = roles
	}
	return &u, nil
}

func (d *PGDirectory) Create(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = ids.New()
	}
	_, err := d.q.ExecContext(ctx,
		`insert into users(id, username, password_hash) values($1,$2,$3)`,
		user.ID, user.Username, user.PasswordHash,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateUsername
	}
	return err
}

func (d *PGDirectory) ReplaceRoles(ctx context.Context, user *User, roles []Role) error {
	if _, err := d.q.ExecContext(ctx, `delete from user_roles where user_id=$1`, user.ID); err != nil {
		return err
	}
	for _, role := range roles {
		_, err := d.q.ExecContext(ctx,
			`insert into user_roles(user_id, role_id) values($1,$2) on conflict do nothing`,
			user.ID, role.ID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// InTx opens a transaction and binds a directory view to it. Nested calls
// reuse the enclosing transaction.
func (d *PGDirectory) InTx(ctx context.Context, fn func(tx Directory) error) error {
	if _, nested := d.q.(*sql.Tx); nested {
		return fn(d)
	}
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&PGDirectory{db: d.db, q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// FindByKeys implements RoleCatalog. Catalog reads run on the root handle so
// they never contend with an open directory transaction.
func (d *PGDirectory) FindByKeys(ctx context.Context, keys []string) ([]Role, error) {
	var roles []Role
	for _, key := range keys {
		row := d.db.QueryRowContext(ctx,
			`select id, key, description, created_at from roles where key=$1`, key)
		var role Role
		if err := row.Scan(&role.ID, &role.Key, &role.Description, &role.CreatedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, fmt.Errorf("find role %s: %w", key, err)
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (d *PGDirectory) rolesForUser(ctx context.Context, userID string) ([]Role, error) {
	rows, err := d.q.QueryContext(ctx,
		`select r.id, r.key, r.description, r.created_at from roles r
		 join user_roles ur on ur.role_id=r.id where ur.user_id=$1 order by r.key`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Key, &role.Description, &role.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}
