package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MockJWTService is a function-field mock of JWTService for handler and
// middleware tests. Unset functions fall back to the fixed fields.
type MockJWTService struct {
	GenerateTokenFunc func(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error)
	ValidateTokenFunc func(ctx context.Context, tokenString string) (*Claims, error)

	Token           string
	TokenError      error
	Claims          *Claims
	ValidationError error
}

var _ JWTService = (*MockJWTService)(nil)

// NewMockJWTService returns a mock that accepts every token for a fresh user.
func NewMockJWTService() *MockJWTService {
	now := time.Now()
	userID := uuid.New()
	return &MockJWTService{
		Token: "mock-jwt-token",
		Claims: &Claims{
			UserID:    userID,
			Subject:   userID.String(),
			IssuedAt:  now,
			ExpiresAt: now.Add(time.Hour),
			ID:        uuid.New().String(),
		},
	}
}

// GenerateToken implements JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(ctx, userID, ttl)
	}
	return m.Token, m.TokenError
}

// ValidateToken implements JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, tokenString)
	}
	if m.ValidationError != nil {
		return nil, m.ValidationError
	}
	return m.Claims, nil
}
