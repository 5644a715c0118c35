package service

import (
	"context"

	"github.com/Dan9191/installment-service/internal/models"
	"github.com/Dan9191/installment-service/internal/validation"
)

// ListCards returns active cards, or every card when includeInactive is set
func (s *Service) ListCards(ctx context.Context, includeInactive bool) ([]models.Card, error) {
	return s.store.ListCards(ctx, includeInactive)
}

// CreateCard validates and stores a new card
func (s *Service) CreateCard(ctx context.Context, in validation.CardInput) (*models.Card, error) {
	card, err := validation.Card(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateCard(ctx, &card); err != nil {
		return nil, err
	}

	s.audit(ctx, models.ActionCardCreate, "Card created: "+card.Name, map[string]any{
		"card_id": card.ID,
		"name":    card.Name,
	})
	s.log.Infof("Card created: %s", card.ID)
	return &card, nil
}

// UpdateCard overwrites a card's editable fields
func (s *Service) UpdateCard(ctx context.Context, id string, in validation.CardInput) (*models.Card, error) {
	card, err := validation.Card(in)
	if err != nil {
		return nil, err
	}
	card.ID = id
	if err := s.store.UpdateCard(ctx, &card); err != nil {
		return nil, err
	}

	s.audit(ctx, models.ActionCardUpdate, "Card updated: "+card.Name, map[string]any{
		"card_id": card.ID,
		"name":    card.Name,
	})
	return &card, nil
}

// DeleteCard soft-deletes a card, or removes the row when hard is set.
// A hard delete detaches the card from its purchases.
func (s *Service) DeleteCard(ctx context.Context, id string, hard bool) error {
	card, err := s.store.GetCard(ctx, id)
	if err != nil {
		return err
	}

	action := models.ActionCardDeactivate
	description := "Card deactivated: " + card.Name
	if hard {
		action = models.ActionCardDelete
		description = "Card deleted: " + card.Name
		err = s.store.DeleteCard(ctx, id)
	} else {
		err = s.store.DeactivateCard(ctx, id)
	}
	if err != nil {
		return err
	}

	s.audit(ctx, action, description, map[string]any{
		"card_id": id,
		"name":    card.Name,
	})
	s.log.Infof("%s: %s", description, id)
	return nil
}
