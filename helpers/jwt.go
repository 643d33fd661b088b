package helpers

import (
	"errors"
	"strings"
	"time"

	"github.com/cristalhq/jwt/v5"
)

const issuer = "https://www.gravitalia.com"

// ErrInvalidToken is returned for any token that cannot be trusted
var ErrInvalidToken = errors.New("invalid token")

// RevocationStore remembers signed out tokens until they expire
type RevocationStore interface {
	Revoke(id string, until time.Time)
	IsRevoked(id string) bool
}

// Sessions creates and checks JWT access tokens
type Sessions struct {
	signer   jwt.Signer
	verifier jwt.Verifier
	ttl      time.Duration
	revoked  RevocationStore
	now      func() time.Time
}

// NewSessions builds HS512 sessions. revoked may be nil,
// in which case sign out cannot invalidate tokens
func NewSessions(secret string, ttl time.Duration, revoked RevocationStore) (*Sessions, error) {
	signer, err := jwt.NewSignerHS(jwt.HS512, []byte(secret))
	if err != nil {
		return nil, err
	}

	verifier, err := jwt.NewVerifierHS(jwt.HS512, []byte(secret))
	if err != nil {
		return nil, err
	}

	return &Sessions{
		signer:   signer,
		verifier: verifier,
		ttl:      ttl,
		revoked:  revoked,
		now:      time.Now,
	}, nil
}

// CreateToken allows to create JWT tokens for a user ID
func (s *Sessions) CreateToken(id string) (string, time.Time, error) {
	now := s.now().UTC()
	expires := now.Add(s.ttl)

	token, err := jwt.NewBuilder(s.signer).Build(&jwt.RegisteredClaims{
		ID:        NewID(),
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
		Issuer:    issuer,
	})
	if err != nil {
		return "", time.Time{}, err
	}

	return token.String(), expires, nil
}

// CheckToken verifies a token and returns its claims.
// A "Bearer " prefix is accepted
func (s *Sessions) CheckToken(token string) (jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims

	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return claims, ErrInvalidToken
	}

	if err := jwt.ParseClaims([]byte(token), s.verifier, &claims); err != nil {
		return claims, ErrInvalidToken
	}

	if !claims.IsValidAt(s.now()) || claims.Subject == "" {
		return claims, ErrInvalidToken
	}

	if s.revoked != nil && claims.ID != "" && s.revoked.IsRevoked(claims.ID) {
		return claims, ErrInvalidToken
	}

	return claims, nil
}

// Revoke invalidates the token described by claims
func (s *Sessions) Revoke(claims jwt.RegisteredClaims) {
	if s.revoked == nil || claims.ID == "" {
		return
	}

	until := s.now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	s.revoked.Revoke(claims.ID, until)
}
