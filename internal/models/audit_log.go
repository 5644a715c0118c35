package models

import "time"

// AuditLog records who changed what in the ledger
type AuditLog struct {
	ID          string         `json:"id"`
	Action      string         `json:"action"`
	Description string         `json:"description"`
	Meta        map[string]any `json:"meta"`
	Actor       string         `json:"actor,omitempty"`
	Signature   string         `json:"signature"`
	Verified    bool           `json:"verified"` // Signature matched on read
	CreatedAt   time.Time      `json:"created_at"`
}

// LogFilter narrows an audit log listing. Empty fields match everything.
type LogFilter struct {
	Action string
	Actor  string
	UserID string
	CardID string
}

// Audit actions
const (
	ActionPurchaseCreate      = "purchase_create"
	ActionPurchaseUpdate      = "purchase_update"
	ActionPurchaseDelete      = "purchase_delete"
	ActionPaymentRecordCreate = "payment_record_create"
	ActionPaymentRecordUpdate = "payment_record_update"
	ActionPaymentRecordDelete = "payment_record_delete"
	ActionUserCreate          = "user_create"
	ActionUserUpdate          = "user_update"
	ActionUserDeactivate      = "user_deactivate"
	ActionCardCreate          = "card_create"
	ActionCardUpdate          = "card_update"
	ActionCardDeactivate      = "card_deactivate"
	ActionCardDelete          = "card_delete"
)
