package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/Dan9191/installment-service/internal/models"
	"github.com/Dan9191/installment-service/internal/validation"
)

const purchaseColumns = `id, user_id, card_id, store_name, product_name, description, total_amount,
	installment_count, first_installment_date, currency, created_at, updated_at`

// scanPurchase reads one row and passes it through the validation boundary
func scanPurchase(row rowScanner) (models.Purchase, error) {
	var (
		p         models.Purchase
		cardID    sql.NullString
		firstDate time.Time
	)
	err := row.Scan(&p.ID, &p.UserID, &cardID, &p.StoreName, &p.ProductName, &p.Description,
		&p.TotalAmount, &p.InstallmentCount, &firstDate, &p.Currency, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Purchase{}, err
	}
	p.CardID = cardID.String
	p.Currency = strings.TrimSpace(p.Currency)
	p.FirstInstallmentDate = calendar.DateOf(firstDate)

	if err := validation.ValidatePurchase(p); err != nil {
		return models.Purchase{}, corruptRecord("purchase", p.ID, err)
	}
	return p, nil
}

// ListPurchases returns purchases newest first
func (r *Repository) ListPurchases(ctx context.Context, filter models.PurchaseFilter) ([]models.Purchase, error) {
	var (
		where []string
		args  []any
	)
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.CardID != "" {
		args = append(args, filter.CardID)
		where = append(where, fmt.Sprintf("card_id = $%d", len(args)))
	}

	query := `SELECT ` + purchaseColumns + ` FROM ledger.purchases`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	purchases := make([]models.Purchase, 0)
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, nil
}

// GetPurchase retrieves a purchase by id
func (r *Repository) GetPurchase(ctx context.Context, id string) (*models.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM ledger.purchases WHERE id = $1`
	p, err := scanPurchase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to find purchase: %w", notFound(err, "purchase", id))
	}
	return &p, nil
}

// CreatePurchase creates a new purchase in the database
func (r *Repository) CreatePurchase(ctx context.Context, p *models.Purchase) error {
	p.ID = newID()
	query := `
		INSERT INTO ledger.purchases (id, user_id, card_id, store_name, product_name, description,
			total_amount, installment_count, first_installment_date, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.UserID, nullString(p.CardID), p.StoreName, p.ProductName,
		p.Description, p.TotalAmount, p.InstallmentCount, p.FirstInstallmentDate.String(), p.Currency).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", constraintError(err))
	}
	return nil
}

// UpdatePurchase overwrites a purchase's user, card, amounts, schedule and names
func (r *Repository) UpdatePurchase(ctx context.Context, p *models.Purchase) error {
	query := `
		UPDATE ledger.purchases
		SET user_id = $2, card_id = $3, store_name = $4, product_name = $5, description = $6,
			total_amount = $7, installment_count = $8, first_installment_date = $9, currency = $10,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.UserID, nullString(p.CardID), p.StoreName, p.ProductName,
		p.Description, p.TotalAmount, p.InstallmentCount, p.FirstInstallmentDate.String(), p.Currency).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update purchase: %w", notFound(err, "purchase", p.ID))
	}
	return nil
}

// DeletePurchase removes a purchase
func (r *Repository) DeletePurchase(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ledger.purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", notFound(err, "purchase", id))
	}
	return expectOne(res, "purchase", id)
}
