package entity

import (
	"strings"
	"time"
)

// Credentials is what the login form submits.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the bearer token issued at login together with the identity it
// was issued for. It is passed explicitly to every workflow that needs
// authorization.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Valid reports whether the session carries a token that has not expired.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || strings.TrimSpace(s.Token) == "" {
		return false
	}
	if !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt) {
		return false
	}
	return true
}

// AuthorizationHeader builds the bearer header value for the session token.
func (s *Session) AuthorizationHeader() string {
	if s == nil {
		return ""
	}
	return "Bearer " + s.Token
}
