package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/Dan9191/installment-service/internal/models"
	"github.com/Dan9191/installment-service/internal/validation"
)

const paymentColumns = `id, user_id, month, amount, payment_date, description, created_at, updated_at`

func scanPaymentRecord(row rowScanner) (models.PaymentRecord, error) {
	var (
		rec         models.PaymentRecord
		month       string
		paymentDate time.Time
	)
	err := row.Scan(&rec.ID, &rec.UserID, &month, &rec.Amount, &paymentDate, &rec.Description,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return models.PaymentRecord{}, err
	}
	rec.Month, err = calendar.ParseMonth(strings.TrimSpace(month))
	if err != nil {
		return models.PaymentRecord{}, corruptRecord("payment record", rec.ID, err)
	}
	rec.PaymentDate = calendar.DateOf(paymentDate)

	if err := validation.ValidatePaymentRecord(rec); err != nil {
		return models.PaymentRecord{}, fmt.Errorf("payment record %s: %w", rec.ID, err)
	}
	return rec, nil
}

// ListPaymentRecords returns payment records, most recent payment first
func (r *Repository) ListPaymentRecords(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentRecord, error) {
	var (
		where []string
		args  []any
	)
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if !filter.Month.IsZero() {
		args = append(args, filter.Month.String())
		where = append(where, fmt.Sprintf("month = $%d", len(args)))
	}

	query := `SELECT ` + paymentColumns + ` FROM ledger.payment_records`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY payment_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment records: %w", err)
	}
	defer rows.Close()

	records := make([]models.PaymentRecord, 0)
	for rows.Next() {
		rec, err := scanPaymentRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payment records: %w", err)
	}
	return records, nil
}

// GetPaymentRecord retrieves a payment record by id
func (r *Repository) GetPaymentRecord(ctx context.Context, id string) (*models.PaymentRecord, error) {
	query := `SELECT ` + paymentColumns + ` FROM ledger.payment_records WHERE id = $1`
	rec, err := scanPaymentRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to find payment record: %w", notFound(err, "payment record", id))
	}
	return &rec, nil
}

// CreatePaymentRecord creates a new payment record in the database
func (r *Repository) CreatePaymentRecord(ctx context.Context, rec *models.PaymentRecord) error {
	rec.ID = newID()
	query := `
		INSERT INTO ledger.payment_records (id, user_id, month, amount, payment_date, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, rec.ID, rec.UserID, rec.Month.String(), rec.Amount,
		rec.PaymentDate.String(), rec.Description).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment record: %w", constraintError(err))
	}
	return nil
}

// UpdatePaymentRecord overwrites amount, payment date and description
func (r *Repository) UpdatePaymentRecord(ctx context.Context, rec *models.PaymentRecord) error {
	query := `
		UPDATE ledger.payment_records
		SET user_id = $2, month = $3, amount = $4, payment_date = $5, description = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, rec.ID, rec.UserID, rec.Month.String(), rec.Amount,
		rec.PaymentDate.String(), rec.Description).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update payment record: %w", notFound(err, "payment record", rec.ID))
	}
	return nil
}

// DeletePaymentRecord removes a payment record
func (r *Repository) DeletePaymentRecord(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ledger.payment_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment record: %w", notFound(err, "payment record", id))
	}
	return expectOne(res, "payment record", id)
}
