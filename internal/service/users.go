package service

import (
	"context"

	"github.com/Dan9191/installment-service/internal/models"
	"github.com/Dan9191/installment-service/internal/validation"
)

// ListUsers returns active users, or every user when includeInactive is set
func (s *Service) ListUsers(ctx context.Context, includeInactive bool) ([]models.User, error) {
	return s.store.ListUsers(ctx, includeInactive)
}

// GetUser returns one user
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// CreateUser validates and stores a new user
func (s *Service) CreateUser(ctx context.Context, in validation.UserInput) (*models.User, error) {
	user, err := validation.User(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	s.audit(ctx, models.ActionUserCreate, "User created: "+user.Name, map[string]any{
		"user_id": user.ID,
		"name":    user.Name,
	})
	s.log.Infof("User created: %s", user.ID)
	return &user, nil
}

// UpdateUser overwrites a user's editable fields
func (s *Service) UpdateUser(ctx context.Context, id string, in validation.UserInput) (*models.User, error) {
	user, err := validation.User(in)
	if err != nil {
		return nil, err
	}
	user.ID = id
	if err := s.store.UpdateUser(ctx, &user); err != nil {
		return nil, err
	}

	s.audit(ctx, models.ActionUserUpdate, "User updated: "+user.Name, map[string]any{
		"user_id": user.ID,
		"name":    user.Name,
	})
	return &user, nil
}

// DeactivateUser soft-deletes a user. Their purchases and payments are kept.
func (s *Service) DeactivateUser(ctx context.Context, id string) error {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeactivateUser(ctx, id); err != nil {
		return err
	}

	s.audit(ctx, models.ActionUserDeactivate, "User deactivated: "+user.Name, map[string]any{
		"user_id": id,
		"name":    user.Name,
	})
	s.log.Infof("User deactivated: %s", id)
	return nil
}
