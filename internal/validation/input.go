package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Number accepts a JSON number or a numeric string and keeps its literal text.
type Number string

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("expected number, got %s", string(b))
	}
	*n = Number(num.String())
	return nil
}

// PurchaseInput is a purchase as received from clients.
type PurchaseInput struct {
	UserID               string `json:"user_id"`
	CardID               string `json:"card_id"`
	StoreName            string `json:"store_name"`
	ProductName          string `json:"product_name"`
	Description          string `json:"description"`
	TotalAmount          Number `json:"total_amount"`
	InstallmentCount     Number `json:"installment_count"`
	FirstInstallmentDate string `json:"first_installment_date"`
	Currency             string `json:"currency"`
}

// PaymentInput is a payment record as received from clients.
type PaymentInput struct {
	UserID      string `json:"user_id"`
	Month       string `json:"month"`
	Amount      Number `json:"amount"`
	PaymentDate string `json:"payment_date"`
	Description string `json:"description"`
}

// UserInput carries the editable user fields.
type UserInput struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Note     string `json:"note"`
	Email    string `json:"email"`
	IsActive *bool  `json:"is_active"`
}

// CardInput carries the editable card fields.
type CardInput struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Note     string `json:"note"`
	IsActive *bool  `json:"is_active"`
}

// Credentials is an operator login or registration request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
