package carpolling

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is an authenticated handle returned by Client.Login. Holding the
// token on the session, rather than on the client, means an authenticated
// call cannot be issued before a login has produced one.
type Session struct {
	client *Client

	mu    sync.Mutex
	token string
	user  User
}

// NewSession restores a session from a previously saved token, e.g. one
// read back from the keychain. The user value is zero until FetchUser is
// called. An empty token sends requests unauthenticated.
func NewSession(c *Client, token string) *Session {
	return &Session{client: c, token: token}
}

// Token returns the bearer token held by the session.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken replaces the bearer token.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// User returns the user the session was established for.
func (s *Session) User() User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Claims parses the token's JWT claims without verifying the signature.
// The token is otherwise opaque to the client; this is introspection only,
// never an authentication decision.
func (s *Session) Claims() (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(s.Token(), claims)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ExpiresAt returns the token's exp claim. ok is false when the token does
// not parse as a JWT or carries no expiry.
func (s *Session) ExpiresAt() (expiry time.Time, ok bool) {
	claims, err := s.Claims()
	if err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
