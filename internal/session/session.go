// Package session carries the bearer token for the current user as an explicit value and
// persists it between CLI invocations.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotLoggedIn is returned by operations that need a token when none is held.
var ErrNotLoggedIn = errors.New("not logged in: please log in first")

// Session is the read-only authentication context threaded into every service call.
type Session struct {
	Token string `json:"token"`
}

// New returns a Session for token.
func New(token string) Session {
	return Session{Token: strings.TrimSpace(token)}
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Authorization returns the value of the Authorization header.
func (s Session) Authorization() string {
	return "Bearer " + s.Token
}

// Require returns ErrNotLoggedIn when no token is present.
func (s Session) Require() error {
	if !s.Authenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

// Claims decodes the token's registered claims without verifying the signature.
// The client never holds the signing key; the service remains the authority.
func (s Session) Claims() (*jwt.RegisteredClaims, error) {
	if !s.Authenticated() {
		return nil, ErrNotLoggedIn
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return nil, fmt.Errorf("token is not a readable JWT: %w", err)
	}
	return claims, nil
}

// ExpiresAt returns the token expiry, if the token carries one.
func (s Session) ExpiresAt() (time.Time, bool) {
	claims, err := s.Claims()
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token carries an expiry that is before now.
// Opaque tokens are never considered expired here.
func (s Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !now.Before(exp)
}

// Subject returns the token's subject claim, or "" when unavailable.
func (s Session) Subject() string {
	claims, err := s.Claims()
	if err != nil {
		return ""
	}
	return claims.Subject
}
