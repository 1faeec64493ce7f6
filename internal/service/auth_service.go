package service

import (
	"context"
	"fmt"
	"time"

	"momo-checkout-console/internal/core/ports"
	"momo-checkout-console/pkg/apperror"
)

// AuthServiceImpl implements ports.AuthService for console operators.
type AuthServiceImpl struct {
	operatorRepo ports.OperatorRepository
	hashSvc      ports.HashService
	tokenSvc     ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(operatorRepo ports.OperatorRepository, hashSvc ports.HashService, tokenSvc ports.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{
		operatorRepo: operatorRepo,
		hashSvc:      hashSvc,
		tokenSvc:     tokenSvc,
	}
}

// Login authenticates an operator and returns a JWT token with its expiry.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	operator, err := s.operatorRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("fetch operator: %w", err))
	}
	if operator == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, operator.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	if !operator.IsActive() {
		return "", time.Time{}, apperror.ErrOperatorDisabled()
	}

	token, expiresAt, err := s.tokenSvc.Generate(operator.ID, operator.Username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	// Best-effort; login stays valid even if the timestamp write fails.
	_ = s.operatorRepo.TouchLogin(ctx, operator.ID, time.Now().UTC())

	return token, expiresAt, nil
}
