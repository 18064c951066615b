package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenName  = "accessToken"
	refreshTokenName = "refreshToken"

	// TokenTypeBearer keeps the trailing space: clients concatenate
	// type and value verbatim when building the Authorization header.
	TokenTypeBearer = "Bearer "

	defaultIssuer     = "handons"
	defaultAccessTTL  = time.Minute
	defaultRefreshTTL = time.Hour
)

// TokenIssuer mints and verifies signed, time-bounded HS256 tokens. The only
// claim it cares about beyond the registered set is the subject, which holds
// the user id.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// IssuerOption configures TokenIssuer behavior.
type IssuerOption func(*TokenIssuer)

// WithIssuer overrides the issuer claim.
func WithIssuer(issuer string) IssuerOption {
	return func(i *TokenIssuer) {
		if s := strings.TrimSpace(issuer); s != "" {
			i.issuer = s
		}
	}
}

// WithAccessTTL configures the access token lifetime.
func WithAccessTTL(ttl time.Duration) IssuerOption {
	return func(i *TokenIssuer) {
		if ttl > 0 {
			i.accessTTL = ttl
		}
	}
}

// WithRefreshTTL configures the refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) IssuerOption {
	return func(i *TokenIssuer) {
		if ttl > 0 {
			i.refreshTTL = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) IssuerOption {
	return func(i *TokenIssuer) {
		if fn != nil {
			i.now = fn
		}
	}
}

// NewTokenIssuer constructs an issuer signing with secret.
func NewTokenIssuer(secret string, opts ...IssuerOption) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	issuer := &TokenIssuer{
		secret:     []byte(secret),
		issuer:     defaultIssuer,
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer, nil
}

// Generate always mints a fresh access token for userID. When
// providedRefresh is empty a refresh token is minted as well; otherwise the
// supplied value is reused verbatim, which is how renewal avoids extending
// the refresh window.
func (i *TokenIssuer) Generate(userID, providedRefresh string) (TokenSet, error) {
	access, err := i.sign(userID, i.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh := providedRefresh
	if refresh == "" {
		refresh, err = i.sign(userID, i.refreshTTL)
		if err != nil {
			return nil, fmt.Errorf("sign refresh token: %w", err)
		}
	}
	return TokenSet{
		{Name: accessTokenName, Type: TokenTypeBearer, Value: access},
		{Name: refreshTokenName, Type: TokenTypeBearer, Value: refresh},
	}, nil
}

// Renew verifies refreshToken and, on success, issues a new access token
// while carrying the same refresh token forward. Any verification failure
// maps to ErrRenewalRequiresLogin.
func (i *TokenIssuer) Renew(refreshToken string) (TokenSet, error) {
	claims, err := i.Verify(refreshToken)
	if err != nil {
		return nil, ErrRenewalRequiresLogin
	}
	return i.Generate(claims.Subject, refreshToken)
}

// Verify checks signature, expiry and issuer, returning the claims.
func (i *TokenIssuer) Verify(token string) (*jwt.RegisteredClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return i.now().UTC() }),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (i *TokenIssuer) sign(userID string, ttl time.Duration) (string, error) {
	now := i.now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    i.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}
