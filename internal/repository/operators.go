package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/installment-service/internal/models"
)

// CreateOperator creates a new operator in the database
func (r *Repository) CreateOperator(ctx context.Context, op *models.Operator) error {
	op.ID = newID()
	query := `
		INSERT INTO ledger.operators (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, op.ID, op.Email, op.PasswordHash).Scan(&op.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create operator: %w", constraintError(err))
	}
	return nil
}

// FindOperatorByEmail retrieves an operator by email
func (r *Repository) FindOperatorByEmail(ctx context.Context, email string) (*models.Operator, error) {
	op := &models.Operator{}
	query := `
		SELECT id, email, password_hash, created_at
		FROM ledger.operators
		WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&op.ID, &op.Email, &op.PasswordHash, &op.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to find operator: %w", notFound(err, "operator", email))
	}
	return op, nil
}
