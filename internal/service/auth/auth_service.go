package auth

import (
	"context"
	"fmt"

	"bizsim-api/internal/domain"
	"bizsim-api/internal/service"
	"bizsim-api/pkg/errors"
	"bizsim-api/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// Service implements the AuthService interface with HS256 session tokens
// issued by the surrounding application
type Service struct {
	secret []byte
	logger *logger.Logger
}

// NewService creates a new auth service
func NewService(jwtSecret string, logger *logger.Logger) service.AuthService {
	return &Service{
		secret: []byte(jwtSecret),
		logger: logger,
	}
}

// ValidateToken validates a signed JWT and returns the actor identity.
// Only identity comes from the token; roles and memberships are re-derived
// from the database on every workflow call.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*domain.Identity, error) {
	if len(s.secret) == 0 {
		s.logger.Error("JWT_SECRET not configured")
		return nil, errors.NewAuthenticationError("token validation not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		s.logger.WithError(err).Debug("token validation failed")
		return nil, errors.NewAuthenticationError("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.NewAuthenticationError("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.NewAuthenticationError("token has no subject")
	}

	identity := &domain.Identity{UserID: sub}
	if admin, ok := claims["admin"].(bool); ok {
		identity.Admin = admin
	}

	return identity, nil
}
