package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrBadToken is returned for session tokens that fail signature or
// claim validation.
var ErrBadToken = errors.New("invalid session token")

// NewSessionToken signs an HS256 JWT carrying the terminal session ID
// as its subject.  Possession of the token is the whole credential; the
// simulator has no user accounts.
func NewSessionToken(secret, sessionID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": sessionID,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseSessionToken validates a session token and returns its subject.
func ParseSessionToken(secret, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrBadToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrBadToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrBadToken
	}
	return sub, nil
}
