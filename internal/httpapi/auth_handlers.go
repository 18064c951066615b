package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dangphu2412/handons-design-pattern/internal/audit"
	"github.com/dangphu2412/handons-design-pattern/internal/auth"
	"github.com/dangphu2412/handons-design-pattern/internal/obs"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type renewRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokensResponse struct {
	Tokens auth.TokenSet `json:"tokens"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "username and password are required")
		return
	}

	tokens, err := a.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		obs.ObserveAuth("register", "rejected")
		handleAuthError(w, r, err)
		return
	}
	obs.ObserveAuth("register", "ok")
	_ = audit.LogEvent(r.Context(), "auth.user.registered", map[string]any{
		"username": req.Username,
	})
	writeJSON(w, http.StatusCreated, tokensResponse{Tokens: tokens})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	tokens, err := a.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		obs.ObserveAuth("login", "rejected")
		handleAuthError(w, r, err)
		return
	}
	obs.ObserveAuth("login", "ok")
	_ = audit.LogEvent(r.Context(), "auth.user.login", map[string]any{
		"username": req.Username,
	})
	writeJSON(w, http.StatusOK, tokensResponse{Tokens: tokens})
}

func (a *API) handleRenewTokens(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req renewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	tokens, err := a.auth.RenewTokens(r.Context(), req.RefreshToken)
	if err != nil {
		obs.ObserveAuth("renew", "rejected")
		handleAuthError(w, r, err)
		return
	}
	obs.ObserveAuth("renew", "ok")
	writeJSON(w, http.StatusOK, tokensResponse{Tokens: tokens})
}

func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrDuplicateUsername):
		writeError(w, r, http.StatusUnprocessableEntity, auth.CodeDuplicatedUsername, "username already taken")
	case errors.Is(err, auth.ErrIncorrectCredentials):
		writeError(w, r, http.StatusUnprocessableEntity, auth.CodeIncorrectCredentials, "incorrect username or password")
	case errors.Is(err, auth.ErrRenewalRequiresLogin):
		writeError(w, r, http.StatusUnauthorized, auth.CodeLogoutRequired, "refresh token rejected, login required")
	default:
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
