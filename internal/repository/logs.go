package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Dan9191/installment-service/internal/models"
)

const maxLogs = 500

// CreateLog stores an audit log entry
func (r *Repository) CreateLog(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = newID()
	}
	meta := entry.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode log meta: %w", err)
	}

	query := `
		INSERT INTO ledger.audit_logs (id, action, description, meta, actor, signature, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.ExecContext(ctx, query, entry.ID, entry.Action, entry.Description, metaJSON,
		entry.Actor, entry.Signature, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create log: %w", err)
	}
	return nil
}

// ListLogs returns the most recent audit log entries matching filter
func (r *Repository) ListLogs(ctx context.Context, filter models.LogFilter) ([]models.AuditLog, error) {
	var (
		where []string
		args  []any
	)
	if filter.Action != "" {
		args = append(args, filter.Action)
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
	}
	if filter.Actor != "" {
		args = append(args, filter.Actor)
		where = append(where, fmt.Sprintf("actor = $%d", len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where = append(where, fmt.Sprintf("meta->>'user_id' = $%d", len(args)))
	}
	if filter.CardID != "" {
		args = append(args, filter.CardID)
		where = append(where, fmt.Sprintf("meta->>'card_id' = $%d", len(args)))
	}

	query := `SELECT id, action, description, meta, actor, signature, created_at FROM ledger.audit_logs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, maxLogs)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	logs := make([]models.AuditLog, 0)
	for rows.Next() {
		var (
			entry    models.AuditLog
			metaJSON []byte
		)
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.Description, &metaJSON, &entry.Actor,
			&entry.Signature, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		if err := json.Unmarshal(metaJSON, &entry.Meta); err != nil {
			return nil, fmt.Errorf("failed to decode log meta: %w", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return logs, nil
}
