package models

import (
	"strings"
	"time"

	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency assumed for purchases recorded without one.
const DefaultCurrency = "TRY"

// Purchase is an installment-bearing debt owned by exactly one user
type Purchase struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"user_id"`
	CardID               string          `json:"card_id,omitempty"`
	StoreName            string          `json:"store_name"`
	ProductName          string          `json:"product_name,omitempty"`
	Description          string          `json:"description,omitempty"` // Legacy free text
	TotalAmount          decimal.Decimal `json:"total_amount"`
	InstallmentCount     int             `json:"installment_count"`
	FirstInstallmentDate calendar.Date   `json:"first_installment_date"`
	Currency             string          `json:"currency"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// IsSinglePayment reports whether the purchase is charged in one go.
func (p Purchase) IsSinglePayment() bool {
	return p.InstallmentCount == 1
}

// FirstMonth is the month of the first (or only) charge.
func (p Purchase) FirstMonth() calendar.Month {
	return p.FirstInstallmentDate.MonthOf()
}

// DisplayName builds "Store - Product", falling back to the store name, then
// the legacy description.
func (p Purchase) DisplayName() string {
	store := strings.TrimSpace(p.StoreName)
	product := strings.TrimSpace(p.ProductName)
	switch {
	case store != "" && product != "":
		return store + " - " + product
	case store != "":
		return store
	case strings.TrimSpace(p.Description) != "":
		return strings.TrimSpace(p.Description)
	default:
		return "Purchase"
	}
}

// PurchaseFilter narrows a purchase listing. Empty fields match everything.
type PurchaseFilter struct {
	UserID string
	CardID string
}
