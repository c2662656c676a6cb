package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/reelnotes/reelnotes/internal/core/domain"
)

// Token types carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AccessClaims is the payload of a session token. user_id is left untyped
// because servers disagree on whether it is a number or a string.
type AccessClaims struct {
	TokenType string `json:"token_type,omitempty"`
	UserID    any    `json:"user_id,omitempty"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	IsStaff   bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// Expiry returns the exp claim, or the zero time when absent.
func (c *AccessClaims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

var unverified = jwt.NewParser()

// DecodeAccessToken reads the claims of raw without verifying its signature.
// The client holds no key material; it only decodes tokens it received from
// the server or found in its own store.
func DecodeAccessToken(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if _, _, err := unverified.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedToken, err)
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("%w: missing username claim", domain.ErrMalformedToken)
	}
	return claims, nil
}

// IdentityFromToken derives an Identity from a raw session token.
func IdentityFromToken(raw string) (*domain.Identity, *AccessClaims, error) {
	claims, err := DecodeAccessToken(raw)
	if err != nil {
		return nil, nil, err
	}
	return &domain.Identity{
		Username:     claims.Username,
		Role:         domain.RoleFromStaff(claims.IsStaff),
		SessionToken: raw,
	}, claims, nil
}
