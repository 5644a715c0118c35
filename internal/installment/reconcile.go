package installment

import (
	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/Dan9191/installment-service/internal/models"
	"github.com/shopspring/decimal"
)

// PaymentsFor keeps the records of userID for month.
func PaymentsFor(records []models.PaymentRecord, userID string, month calendar.Month) []models.PaymentRecord {
	out := make([]models.PaymentRecord, 0)
	for _, r := range records {
		if r.UserID == userID && r.Month == month {
			out = append(out, r)
		}
	}
	return out
}

// TotalPaid sums the record amounts.
func TotalPaid(records []models.PaymentRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

// Residual nets already-filtered payments against a month's due total. A
// negative result is a credit.
func Residual(monthDue decimal.Decimal, records []models.PaymentRecord) decimal.Decimal {
	return monthDue.Sub(TotalPaid(records))
}

// ResidualForUserMonth nets the payments of userID for month against
// monthDue. Only that month's due amount is reduced; outstanding debt is a
// separate figure and is never netted here.
func ResidualForUserMonth(monthDue decimal.Decimal, records []models.PaymentRecord, userID string, month calendar.Month) decimal.Decimal {
	return Residual(monthDue, PaymentsFor(records, userID, month))
}
