package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/installment-service/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgreSQL error codes the repository translates
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func newID() string {
	return uuid.NewString()
}

// notFound maps sql.ErrNoRows (and ids that are not even valid UUIDs) to models.ErrNotFound
func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, models.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == codeInvalidText {
		return fmt.Errorf("%s %s: %w", what, id, models.ErrNotFound)
	}
	return constraintError(err)
}

// corruptRecord reports a stored row that fails validation on read. The
// validation error is kept as text so it does not match client error kinds.
func corruptRecord(what, id string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", models.ErrCorruptRecord, what, id, err)
}

// constraintError translates constraint violations into domain errors
func constraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", models.ErrConflict, pqErr.Detail)
	case codeForeignKeyViolation, codeInvalidText:
		return fmt.Errorf("%w: referenced record does not exist", models.ErrInvalidInput)
	}
	return err
}

// expectOne turns an UPDATE/DELETE that touched no row into models.ErrNotFound
func expectOne(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, models.ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
