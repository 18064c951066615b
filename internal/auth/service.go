package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Service coordinates registration, login and token renewal across the user
// directory, password hasher, role resolver, token issuer and role cache.
// It holds no state of its own beyond references to its collaborators.
type Service struct {
	directory Directory
	hasher    Hasher
	issuer    *TokenIssuer
	resolver  RoleResolver
	cache     RoleCache
}

// NewService constructs the orchestrator.
func NewService(directory Directory, hasher Hasher, issuer *TokenIssuer, resolver RoleResolver, cache RoleCache) *Service {
	return &Service{
		directory: directory,
		hasher:    hasher,
		issuer:    issuer,
		resolver:  resolver,
		cache:     cache,
	}
}

// Register creates a new account and returns its first token pair.
//
// The username check runs before any side effect; the user creation and role
// assignment run inside one directory transaction, so a failure in either
// (or in role resolution) leaves no partial state behind. Token issuance and
// the role-cache write happen after the transaction commits and are outside
// its boundary.
func (s *Service) Register(ctx context.Context, username, password string) (TokenSet, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrIncorrectCredentials
	}

	existing, err := s.directory.FindByUsername(ctx, username, false)
	if err != nil {
		return nil, fmt.Errorf("look up username: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{Username: username, PasswordHash: hash}
	var roles []Role
	err = s.directory.InTx(ctx, func(tx Directory) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return tx.Create(gctx, user)
		})
		g.Go(func() error {
			resolved, err := s.resolver.NewUserRoles(gctx)
			if err != nil {
				return err
			}
			roles = resolved
			return nil
		})
		if err := g.Wait(); err != nil {
			return err
		}
		return tx.ReplaceRoles(ctx, user, roles)
	})
	if err != nil {
		// The unique index on username is the backstop for two concurrent
		// registrations racing past the lookup above.
		return nil, err
	}

	return s.issueAndCache(ctx, user.ID, RoleKeys(roles))
}

// Login authenticates the credentials and returns a fresh token pair. The
// role cache entry is overwritten on every login so it never serves grants
// staler than one login cycle.
func (s *Service) Login(ctx context.Context, username, password string) (TokenSet, error) {
	user, err := s.directory.FindByUsername(ctx, username, true)
	if err != nil {
		return nil, fmt.Errorf("look up username: %w", err)
	}
	// An unknown username and a wrong password are deliberately
	// indistinguishable to the caller.
	if user == nil || !s.hasher.Compare(password, user.PasswordHash) {
		return nil, ErrIncorrectCredentials
	}
	return s.issueAndCache(ctx, user.ID, RoleKeys(user.Roles))
}

// RenewTokens exchanges a valid refresh token for a new access token. The
// refresh token itself is carried forward unchanged.
func (s *Service) RenewTokens(ctx context.Context, refreshToken string) (TokenSet, error) {
	return s.issuer.Renew(refreshToken)
}

// issueAndCache generates the token pair and overwrites the role cache entry
// concurrently; the caller gets a response only after both complete.
func (s *Service) issueAndCache(ctx context.Context, userID string, keys RoleKeySet) (TokenSet, error) {
	var tokens TokenSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		set, err := s.issuer.Generate(userID, "")
		if err != nil {
			return err
		}
		tokens = set
		return nil
	})
	g.Go(func() error {
		if err := s.cache.Set(gctx, userID, keys); err != nil {
			return fmt.Errorf("write role cache: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tokens, nil
}
