package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields the portal reads from tokens issued by the remote API.
// Only the registered claims are relied upon; the rest are best effort.
type Claims struct {
	UserID int64  `json:"id,omitempty"`
	Email  string `json:"email,omitempty"`
	RoleID int    `json:"roleID,omitempty"`
	jwt.RegisteredClaims
}

var ErrOpaqueToken = errors.New("token is not a jwt")

// Inspect decodes the token claims without verifying the signature. The
// portal does not hold the API signing key; the API stays the authority and
// these claims only drive early, client-side decisions such as expiry.
func Inspect(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, errors.New("token is empty")
	}
	if strings.Count(tokenString, ".") != 2 {
		return nil, ErrOpaqueToken
	}
	parser := jwt.NewParser()
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ExpiresAt returns the exp claim when the token carries one.
func ExpiresAt(tokenString string) (time.Time, bool) {
	claims, err := Inspect(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token is a jwt whose exp claim is not after now.
// Opaque or undecodable tokens are never reported as expired.
func Expired(tokenString string, now time.Time) bool {
	exp, ok := ExpiresAt(tokenString)
	if !ok {
		return false
	}
	return !now.Before(exp)
}
