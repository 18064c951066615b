package auth

import "time"

// User is an account identified by a unique, case-sensitive username.
// Roles are loaded on demand; a nil slice means they were not requested.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role groups grants under a stable key such as "VISITOR". Roles are
// immutable once defined; assignment to users is many-to-many.
type Role struct {
	ID          string
	Key         string
	Description string
	CreatedAt   time.Time
}

// RoleKeySet maps a role key to a presence flag. It is the exact shape
// written to the role cache: every key present maps to true, absence means
// the role is not granted.
type RoleKeySet map[string]bool

// RoleKeys derives the cacheable key set from a role collection.
func RoleKeys(roles []Role) RoleKeySet {
	set := make(RoleKeySet, len(roles))
	for _, role := range roles {
		set[role.Key] = true
	}
	return set
}

// Token is a named credential entry in the shape clients receive it.
type Token struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// TokenSet carries exactly two entries named accessToken and refreshToken.
type TokenSet []Token

func (ts TokenSet) lookup(name string) string {
	for _, t := range ts {
		if t.Name == name {
			return t.Value
		}
	}
	return ""
}

// AccessToken returns the access token value, or "" if absent.
func (ts TokenSet) AccessToken() string { return ts.lookup(accessTokenName) }

// RefreshToken returns the refresh token value, or "" if absent.
func (ts TokenSet) RefreshToken() string { return ts.lookup(refreshTokenName) }
