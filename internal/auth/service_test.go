package auth

import (
	"context"
	"errors"
	"testing"
)

type fakeCache struct {
	entries map[string]RoleKeySet
	writes  int
	failErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]RoleKeySet)}
}

func (c *fakeCache) Set(ctx context.Context, userID string, keys RoleKeySet) error {
	if c.failErr != nil {
		return c.failErr
	}
	c.writes++
	c.entries[userID] = keys
	return nil
}

type failingResolver struct{ err error }

func (r failingResolver) NewUserRoles(ctx context.Context) ([]Role, error) {
	return nil, r.err
}

func newTestService(t *testing.T, cache RoleCache) (*Service, *MemDirectory) {
	t.Helper()
	directory := NewMemDirectory()
	issuer, err := NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	svc := NewService(directory, BcryptHasher{Cost: 4}, issuer, CatalogResolver{Catalog: directory}, cache)
	return svc, directory
}

func TestRegisterThenLogin(t *testing.T) {
	cache := newFakeCache()
	svc, _ := newTestService(t, cache)
	ctx := context.Background()

	tokens, err := svc.Register(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	assertTokenShape(t, tokens)

	tokens, err = svc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login after Register: %v", err)
	}
	assertTokenShape(t, tokens)
}

func assertTokenShape(t *testing.T, tokens TokenSet) {
	t.Helper()
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens.AccessToken() == "" || tokens.RefreshToken() == "" {
		t.Fatalf("missing token values: %+v", tokens)
	}
	for _, tok := range tokens {
		if tok.Type != TokenTypeBearer {
			t.Fatalf("unexpected token type %q", tok.Type)
		}
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	cache := newFakeCache()
	svc, _ := newTestService(t, cache)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	writes := cache.writes

	_, err := svc.Register(ctx, "alice", "other")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if cache.writes != writes {
		t.Fatalf("duplicate registration mutated the role cache")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	cache := newFakeCache()
	svc, _ := newTestService(t, cache)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login(ctx, "alice", "nope"); !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("wrong password: expected ErrIncorrectCredentials, got %v", err)
	}
	// Unknown usernames yield the very same error.
	if _, err := svc.Login(ctx, "nobody", "s3cret"); !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("unknown user: expected ErrIncorrectCredentials, got %v", err)
	}
}

func TestRegisterRollsBackWhenRoleResolutionFails(t *testing.T) {
	cache := newFakeCache()
	directory := NewMemDirectory()
	issuer, err := NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	boom := errors.New("role catalog down")
	svc := NewService(directory, BcryptHasher{Cost: 4}, issuer, failingResolver{err: boom}, cache)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "s3cret"); !errors.Is(err, boom) {
		t.Fatalf("expected resolver failure to propagate, got %v", err)
	}

	user, err := directory.FindByUsername(ctx, "alice", false)
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if user != nil {
		t.Fatalf("user row survived a failed registration: %+v", user)
	}
	if len(cache.entries) != 0 {
		t.Fatalf("role cache mutated by failed registration")
	}
}

func TestRegisterWritesVisitorRoleKeys(t *testing.T) {
	cache := newFakeCache()
	svc, directory := newTestService(t, cache)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	user, err := directory.FindByUsername(ctx, "alice", true)
	if err != nil || user == nil {
		t.Fatalf("FindByUsername: user=%v err=%v", user, err)
	}
	keys, ok := cache.entries[user.ID]
	if !ok {
		t.Fatalf("no cache entry for %s", user.ID)
	}
	if len(keys) != 1 || !keys[RoleKeyVisitor] {
		t.Fatalf("unexpected cached key set: %v", keys)
	}
	if len(user.Roles) != 1 || user.Roles[0].Key != RoleKeyVisitor {
		t.Fatalf("unexpected persisted roles: %+v", user.Roles)
	}
}

func TestRegisterSurfacesCacheFailure(t *testing.T) {
	cache := newFakeCache()
	cache.failErr = errors.New("cache unavailable")
	svc, directory := newTestService(t, cache)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "s3cret"); err == nil {
		t.Fatal("expected cache failure to surface")
	}
	// The directory transaction closed before the cache write, so the user
	// exists even though the caller saw an error.
	user, err := directory.FindByUsername(ctx, "alice", false)
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if user == nil {
		t.Fatal("expected user to persist past the transaction boundary")
	}
}

func TestLoginOverwritesRoleCache(t *testing.T) {
	cache := newFakeCache()
	svc, directory := newTestService(t, cache)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	user, _ := directory.FindByUsername(ctx, "alice", false)

	// Simulate a stale entry; the next login must replace it wholesale.
	cache.entries[user.ID] = RoleKeySet{"STALE": true}
	if _, err := svc.Login(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	keys := cache.entries[user.ID]
	if keys["STALE"] || !keys[RoleKeyVisitor] {
		t.Fatalf("cache not refreshed on login: %v", keys)
	}
}
