package validation

import "github.com/shopspring/decimal"

const (
	MaxInstallmentCount = 120 // 10 years of monthly installments
	MaxNameLength       = 120
	MaxNoteLength       = 1000
)

// MaxAmount is the largest purchase or payment amount accepted.
var MaxAmount = decimal.NewFromInt(1_000_000_000)
