package auth

import (
	"context"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
)

// TokenService issues and verifies signed access tokens.
type TokenService interface {
	// GenerateToken creates a signed access token for the principal.
	GenerateToken(ctx context.Context, principal *domain.Principal) (string, error)

	// ValidateToken verifies the signature and expiry of tokenString and
	// returns its claims. Fails with ErrInvalidToken or ErrExpiredToken.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified content of an access token.
type Claims struct {
	PrincipalID int64     `json:"pid"`
	Name        string    `json:"name"`
	Subject     string    `json:"sub,omitempty"`
	IssuedAt    time.Time `json:"iat,omitempty"`
	ExpiresAt   time.Time `json:"exp,omitempty"`
	ID          string    `json:"jti,omitempty"`
}
