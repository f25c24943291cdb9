package service

import (
	"context"

	"bizsim-api/internal/domain"
)

// AuthService defines the interface for authentication operations.
// It only establishes identity; roles and team membership are re-derived
// from membership data inside each workflow operation.
type AuthService interface {
	// ValidateToken validates a bearer token and returns the actor identity
	ValidateToken(ctx context.Context, token string) (*domain.Identity, error)
}
