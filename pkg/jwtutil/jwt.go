// Package jwtutil signs and verifies the HS256 tokens used to authenticate
// the callers of the pool and the pool itself towards the ledger gateway.
// The subject of a token is the identity of the caller.
package jwtutil

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultLeeway = 30 * time.Second

var (
	ErrMissingSecret  = errors.New("missing token secret")
	ErrMissingSubject = errors.New("token subject missing")
	ErrInvalidToken   = errors.New("invalid token")
)

// NewToken returns a token for subject signed with secret. A zero ttl makes
// a token that never expires.
func NewToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	if len(secret) <= 0 {
		return "", ErrMissingSecret
	}
	if subject == "" {
		return "", ErrMissingSubject
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseSubject verifies the token and returns its subject.
func ParseSubject(secret []byte, token string) (string, error) {
	if len(secret) <= 0 {
		return "", ErrMissingSecret
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(
		token, claims, func(_ *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(defaultLeeway),
	)
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return "", ErrInvalidToken
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", ErrMissingSubject
	}
	return subject, nil
}

// BearerToken extracts the token from the value of an Authorization header.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
