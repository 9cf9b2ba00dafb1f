// Package auth verifies the bearer tokens that identify assessment takers.
// Tokens are issued by an external identity provider and signed with a
// shared HS256 secret; the sub claim carries the user's UUID.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations on JWT bearer tokens.
type JWTService interface {
	// GenerateToken signs a token for userID valid for ttl. It exists for
	// local development and tests; production tokens come from the identity provider.
	GenerateToken(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error)

	// ValidateToken validates the token string and extracts its claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims are the verified claims of a bearer token.
type Claims struct {
	// UserID is parsed from the sub claim.
	UserID    uuid.UUID `json:"uid"`
	Subject   string    `json:"sub"`
	Issuer    string    `json:"iss,omitempty"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
	ID        string    `json:"jti,omitempty"`
}
