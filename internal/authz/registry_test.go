package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/dangphu2412/handons-design-pattern/internal/auth"
)

type allowAll struct{}

func (allowAll) Authorize(ctx context.Context) error { return nil }

type denyAll struct{}

func (denyAll) Authorize(ctx context.Context) error { return ErrForbidden }

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()

	if _, ok := registry.Lookup("missing"); ok {
		t.Fatal("lookup on empty registry succeeded")
	}

	registry.Register("open", allowAll{})
	strategy, ok := registry.Lookup("open")
	if !ok {
		t.Fatal("registered strategy not found")
	}
	if err := strategy.Authorize(context.Background()); err != nil {
		t.Fatalf("Authorize: %v", err)
	}
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	registry := NewRegistry()
	registry.Register("gate", allowAll{})
	registry.Register("gate", denyAll{})

	strategy, ok := registry.Lookup("gate")
	if !ok {
		t.Fatal("strategy not found")
	}
	if err := strategy.Authorize(context.Background()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected the overwrite to win, got %v", err)
	}
}

func TestRoleKeyStrategy(t *testing.T) {
	strategy := RoleKeyStrategy{Key: auth.RoleKeyVisitor}

	if err := strategy.Authorize(context.Background()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("anonymous request: expected ErrForbidden, got %v", err)
	}

	ctx := auth.ContextWithPrincipal(context.Background(), auth.Principal{
		UserID:   "u1",
		RoleKeys: auth.RoleKeySet{auth.RoleKeyVisitor: true},
	})
	if err := strategy.Authorize(ctx); err != nil {
		t.Fatalf("holder of the key denied: %v", err)
	}

	other := auth.ContextWithPrincipal(context.Background(), auth.Principal{
		UserID:   "u2",
		RoleKeys: auth.RoleKeySet{"ADMIN": true},
	})
	if err := strategy.Authorize(other); !errors.Is(err, ErrForbidden) {
		t.Fatalf("wrong key: expected ErrForbidden, got %v", err)
	}
}

func TestAllowAuthenticated(t *testing.T) {
	strategy := AllowAuthenticated{}

	if err := strategy.Authorize(context.Background()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("anonymous request: expected ErrForbidden, got %v", err)
	}

	ctx := auth.ContextWithPrincipal(context.Background(), auth.Principal{UserID: "u1"})
	if err := strategy.Authorize(ctx); err != nil {
		t.Fatalf("authenticated request denied: %v", err)
	}
}
