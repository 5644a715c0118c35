package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/installment-service/internal/models"
)

const cardColumns = `id, name, color, note, is_active, created_at, updated_at`

func scanCard(row rowScanner) (models.Card, error) {
	var c models.Card
	err := row.Scan(&c.ID, &c.Name, &c.Color, &c.Note, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListCards returns cards ordered by name, active ones only unless includeInactive
func (r *Repository) ListCards(ctx context.Context, includeInactive bool) ([]models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM ledger.cards`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := make([]models.Card, 0)
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// GetCard retrieves a card by id
func (r *Repository) GetCard(ctx context.Context, id string) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM ledger.cards WHERE id = $1`
	c, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to find card: %w", notFound(err, "card", id))
	}
	return &c, nil
}

// CreateCard creates a new card in the database
func (r *Repository) CreateCard(ctx context.Context, card *models.Card) error {
	card.ID = newID()
	query := `
		INSERT INTO ledger.cards (id, name, color, note, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, card.ID, card.Name, card.Color, card.Note, card.IsActive).
		Scan(&card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// UpdateCard overwrites the editable card fields
func (r *Repository) UpdateCard(ctx context.Context, card *models.Card) error {
	query := `
		UPDATE ledger.cards
		SET name = $2, color = $3, note = $4, is_active = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, card.ID, card.Name, card.Color, card.Note, card.IsActive).
		Scan(&card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", notFound(err, "card", card.ID))
	}
	return nil
}

// DeactivateCard soft-deletes a card
func (r *Repository) DeactivateCard(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ledger.cards SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate card: %w", notFound(err, "card", id))
	}
	return expectOne(res, "card", id)
}

// DeleteCard removes a card row; purchases keep existing without a card
func (r *Repository) DeleteCard(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ledger.cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", notFound(err, "card", id))
	}
	return expectOne(res, "card", id)
}
