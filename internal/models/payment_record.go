package models

import (
	"time"

	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/shopspring/decimal"
)

// PaymentRecord is an out-of-band partial payment toward a user's balance for
// one month
type PaymentRecord struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Month       calendar.Month  `json:"month"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate calendar.Date   `json:"payment_date"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PaymentFilter narrows a payment record listing. Empty fields match everything.
type PaymentFilter struct {
	UserID string
	Month  calendar.Month
}
