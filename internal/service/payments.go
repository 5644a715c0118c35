package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/installment-service/internal/models"
	"github.com/Dan9191/installment-service/internal/validation"
)

// ListPayments returns payment records matching filter
func (s *Service) ListPayments(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentRecord, error) {
	return s.store.ListPaymentRecords(ctx, filter)
}

// CreatePayment validates and stores a payment record
func (s *Service) CreatePayment(ctx context.Context, in validation.PaymentInput) (*models.PaymentRecord, error) {
	rec, err := validation.PaymentRecord(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkPaymentUser(ctx, rec.UserID); err != nil {
		return nil, err
	}
	if err := s.store.CreatePaymentRecord(ctx, &rec); err != nil {
		return nil, err
	}

	s.audit(ctx, models.ActionPaymentRecordCreate,
		fmt.Sprintf("Payment recorded for %s: %s", rec.Month, rec.Amount.StringFixed(2)), paymentMeta(rec))
	s.log.Infof("Payment record created: %s", rec.ID)
	return &rec, nil
}

// UpdatePayment replaces a payment record
func (s *Service) UpdatePayment(ctx context.Context, id string, in validation.PaymentInput) (*models.PaymentRecord, error) {
	rec, err := validation.PaymentRecord(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkPaymentUser(ctx, rec.UserID); err != nil {
		return nil, err
	}
	rec.ID = id
	if err := s.store.UpdatePaymentRecord(ctx, &rec); err != nil {
		return nil, err
	}

	s.audit(ctx, models.ActionPaymentRecordUpdate,
		fmt.Sprintf("Payment updated for %s: %s", rec.Month, rec.Amount.StringFixed(2)), paymentMeta(rec))
	return &rec, nil
}

// DeletePayment removes a payment record
func (s *Service) DeletePayment(ctx context.Context, id string) error {
	rec, err := s.store.GetPaymentRecord(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeletePaymentRecord(ctx, id); err != nil {
		return err
	}

	s.audit(ctx, models.ActionPaymentRecordDelete,
		fmt.Sprintf("Payment deleted for %s: %s", rec.Month, rec.Amount.StringFixed(2)), paymentMeta(*rec))
	s.log.Infof("Payment record deleted: %s", id)
	return nil
}

func (s *Service) checkPaymentUser(ctx context.Context, userID string) error {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: unknown user %s", models.ErrInvalidPayment, userID)
		}
		return err
	}
	return nil
}

func paymentMeta(rec models.PaymentRecord) map[string]any {
	return map[string]any{
		"payment_record_id": rec.ID,
		"user_id":           rec.UserID,
		"month":             rec.Month.String(),
		"amount":            rec.Amount.StringFixed(2),
	}
}
