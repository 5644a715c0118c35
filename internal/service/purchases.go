package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Dan9191/installment-service/internal/models"
	"github.com/Dan9191/installment-service/internal/validation"
)

// ListPurchases returns purchases matching filter, newest first
func (s *Service) ListPurchases(ctx context.Context, filter models.PurchaseFilter) ([]models.Purchase, error) {
	return s.store.ListPurchases(ctx, filter)
}

// CreatePurchase validates and stores a new purchase
func (s *Service) CreatePurchase(ctx context.Context, in validation.PurchaseInput) (*models.Purchase, error) {
	p, err := validation.Purchase(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkPurchaseRefs(ctx, p); err != nil {
		return nil, err
	}
	if err := s.store.CreatePurchase(ctx, &p); err != nil {
		return nil, err
	}

	s.audit(ctx, models.ActionPurchaseCreate, "Purchase created: "+p.DisplayName(), purchaseMeta(p))
	s.log.Infof("Purchase created: %s (%s x%d)", p.ID, p.TotalAmount.StringFixed(2), p.InstallmentCount)
	return &p, nil
}

// UpdatePurchase replaces a purchase. The schedule is recomputed from the new
// values on every read.
func (s *Service) UpdatePurchase(ctx context.Context, id string, in validation.PurchaseInput) (*models.Purchase, error) {
	p, err := validation.Purchase(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkPurchaseRefs(ctx, p); err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.store.UpdatePurchase(ctx, &p); err != nil {
		return nil, err
	}

	s.audit(ctx, models.ActionPurchaseUpdate, "Purchase updated: "+p.DisplayName(), purchaseMeta(p))
	return &p, nil
}

// DeletePurchase removes a purchase
func (s *Service) DeletePurchase(ctx context.Context, id string) error {
	p, err := s.store.GetPurchase(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeletePurchase(ctx, id); err != nil {
		return err
	}

	s.audit(ctx, models.ActionPurchaseDelete, "Purchase deleted: "+p.DisplayName(), purchaseMeta(*p))
	s.log.Infof("Purchase deleted: %s", id)
	return nil
}

// checkPurchaseRefs rejects purchases pointing at unknown users or cards
func (s *Service) checkPurchaseRefs(ctx context.Context, p models.Purchase) error {
	if _, err := s.store.GetUser(ctx, p.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: unknown user %s", models.ErrInvalidPurchase, p.UserID)
		}
		return err
	}
	if p.CardID == "" {
		return nil
	}
	if _, err := s.store.GetCard(ctx, p.CardID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: unknown card %s", models.ErrInvalidPurchase, p.CardID)
		}
		return err
	}
	return nil
}

func purchaseMeta(p models.Purchase) map[string]any {
	meta := map[string]any{
		"purchase_id":       p.ID,
		"user_id":           p.UserID,
		"total_amount":      p.TotalAmount.StringFixed(2),
		"installment_count": strconv.Itoa(p.InstallmentCount),
		"currency":          p.Currency,
	}
	if p.CardID != "" {
		meta["card_id"] = p.CardID
	}
	return meta
}
