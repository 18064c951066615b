package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dangphu2412/handons-design-pattern/internal/auth"
)

const (
	authHeader   = "Authorization"
	bearerPrefix = "Bearer "
)

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("authorization header is required")
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", errors.New("authorization header must use the Bearer scheme")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", errors.New("bearer token is empty")
	}
	return token, nil
}

// withStrategy verifies the access token, loads the caller's cached role
// keys and dispatches the authorization check to the strategy registered
// under strategyID.
func (a *API) withStrategy(strategyID string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		}
		claims, err := a.issuer.Verify(token)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			return
		}
		keys, err := a.roles.Lookup(r.Context(), claims.Subject)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "INTERNAL", "authorization error")
			return
		}
		ctx := auth.ContextWithPrincipal(r.Context(), auth.Principal{
			UserID:   claims.Subject,
			RoleKeys: keys,
		})

		strategy, ok := a.registry.Lookup(strategyID)
		if !ok {
			writeError(w, r, http.StatusInternalServerError, "INTERNAL", "authorization strategy not configured")
			return
		}
		if err := strategy.Authorize(ctx); err != nil {
			writeError(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient role")
			return
		}
		next(w, r.WithContext(ctx))
	}
}

func (a *API) handleMyRoles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	principal, _ := auth.PrincipalFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"userId": principal.UserID,
		"roles":  principal.RoleKeys,
	})
}
