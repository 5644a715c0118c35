package models

import (
	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/shopspring/decimal"
)

// LineItem is one installment due in a month, for statement-style display
type LineItem struct {
	PurchaseID        string          `json:"purchase_id"`
	UserID            string          `json:"user_id"`
	CardID            string          `json:"card_id,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	InstallmentNumber int             `json:"installment_number"`
	TotalInstallments int             `json:"total_installments"`
	Description       string          `json:"description"`
	Currency          string          `json:"currency"`
}

// MonthTotal is the amount due across a purchase set in one month
type MonthTotal struct {
	Month calendar.Month  `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// PurchaseProgress describes how far a purchase has been paid as of a month.
// The reference month itself counts as unpaid.
type PurchaseProgress struct {
	Purchase              Purchase         `json:"purchase"`
	InstallmentAmount     decimal.Decimal  `json:"installment_amount"`
	DueThisMonth          *decimal.Decimal `json:"due_this_month,omitempty"`
	InstallmentNumber     int              `json:"installment_number,omitempty"`
	PaidInstallments      int              `json:"paid_installments"`
	RemainingInstallments int              `json:"remaining_installments"`
	PaidAmount            decimal.Decimal  `json:"paid_amount"`
	RemainingAmount       decimal.Decimal  `json:"remaining_amount"`
}

// UserStats is one dashboard row for a user
type UserStats struct {
	UserID                string          `json:"user_id"`
	UserName              string          `json:"user_name"`
	UserColor             string          `json:"user_color"`
	MonthTotal            decimal.Decimal `json:"month_total"`
	TotalDebt             decimal.Decimal `json:"total_debt"`
	TotalSpending         decimal.Decimal `json:"total_spending"`
	RemainingInstallments int             `json:"remaining_installments"`
}

// CardStats is one dashboard row for a card
type CardStats struct {
	CardID        string          `json:"card_id"`
	CardName      string          `json:"card_name"`
	CardColor     string          `json:"card_color"`
	MonthTotal    decimal.Decimal `json:"month_total"`
	TotalDebt     decimal.Decimal `json:"total_debt"`
	TotalSpending decimal.Decimal `json:"total_spending"`
}

// Totals sums a set of dashboard rows
type Totals struct {
	MonthTotal    decimal.Decimal `json:"month_total"`
	TotalDebt     decimal.Decimal `json:"total_debt"`
	TotalSpending decimal.Decimal `json:"total_spending"`
}

// Dashboard is the month overview across users and cards
type Dashboard struct {
	Month      calendar.Month `json:"month"`
	Users      []UserStats    `json:"users"`
	UserTotals Totals         `json:"user_totals"`
	Cards      []CardStats    `json:"cards"`
	CardTotals Totals         `json:"card_totals"`
	// ConvertedMonthTotal is the month total in the base currency when
	// purchases span several currencies and rates are available.
	ConvertedMonthTotal *decimal.Decimal `json:"converted_month_total,omitempty"`
	BaseCurrency        string           `json:"base_currency"`
}

// Statement lists the installments due in a month
type Statement struct {
	Month calendar.Month  `json:"month"`
	Items []LineItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// UserSummary is the per-user month view. Outstanding debt and payments are
// reported side by side; payments only net against the month's due amount.
type UserSummary struct {
	User                  User               `json:"user"`
	Month                 calendar.Month     `json:"month"`
	MonthDue              decimal.Decimal    `json:"month_due"`
	MonthPaid             decimal.Decimal    `json:"month_paid"`
	MonthResidual         decimal.Decimal    `json:"month_residual"`
	OutstandingDebt       decimal.Decimal    `json:"outstanding_debt"`
	RemainingInstallments int                `json:"remaining_installments"`
	TotalSpending         decimal.Decimal    `json:"total_spending"`
	Installments          []LineItem         `json:"installments"`
	Purchases             []PurchaseProgress `json:"purchases"`
	Payments              []PaymentRecord    `json:"payments"`
}

// ExchangeRate is the selling rate of one currency unit in the base currency
type ExchangeRate struct {
	Code string          `json:"code"`
	Unit int             `json:"unit"`
	Rate decimal.Decimal `json:"rate"`
}
