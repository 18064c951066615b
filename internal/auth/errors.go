package auth

import "errors"

// Stable error codes surfaced to clients. Internal failure detail never
// crosses the API boundary.
const (
	CodeDuplicatedUsername   = "DUPLICATED_USERNAME"
	CodeIncorrectCredentials = "INCORRECT_USERNAME_OR_PASSWORD"
	CodeLogoutRequired       = "LOGOUT_REQUIRED"
)

var (
	// ErrDuplicateUsername rejects registration before any side effect runs.
	ErrDuplicateUsername = errors.New("auth: username already taken")
	// ErrIncorrectCredentials covers both an unknown username and a wrong
	// password so usernames cannot be enumerated through the login endpoint.
	ErrIncorrectCredentials = errors.New("auth: incorrect username or password")
	// ErrRenewalRequiresLogin is returned for any refresh token that fails
	// verification; the client must restart the login flow.
	ErrRenewalRequiresLogin = errors.New("auth: renewal rejected, login required")
	// ErrInvalidToken indicates an access token failed verification.
	ErrInvalidToken = errors.New("auth: invalid token")
)
