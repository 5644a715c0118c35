package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/installment-service/internal/models"
	"github.com/Dan9191/installment-service/internal/utils"
	"github.com/Dan9191/installment-service/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// Register creates a new operator with hashed password
func (s *Service) Register(ctx context.Context, c validation.Credentials) (*models.Operator, error) {
	if err := validation.ValidateCredentials(c); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	op := &models.Operator{
		Email:        normalizeEmail(c.Email),
		PasswordHash: string(hashedPassword),
	}
	if err := s.store.CreateOperator(ctx, op); err != nil {
		return nil, err
	}

	s.log.Infof("Operator registered: %s", op.Email)
	return op, nil
}

// Login authenticates an operator and returns a JWT token
func (s *Service) Login(ctx context.Context, c validation.Credentials) (string, error) {
	op, err := s.store.FindOperatorByEmail(ctx, normalizeEmail(c.Email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(c.Password)); err != nil {
		return "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}

	token, err := utils.GenerateToken(s.config.JWTSecret, op.ID, op.Email, tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("Operator logged in: %s", op.Email)
	return token, nil
}

// Authenticate validates a bearer token and returns its claims
func (s *Service) Authenticate(token string) (*utils.Claims, error) {
	claims, err := utils.ParseToken(s.config.JWTSecret, token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %v: %w", err, models.ErrUnauthorized)
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
