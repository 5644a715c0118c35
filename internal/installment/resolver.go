package installment

import (
	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/Dan9191/installment-service/internal/models"
	"github.com/shopspring/decimal"
)

// Entry is one installment of a purchase's schedule.
type Entry struct {
	Month  calendar.Month
	Number int
	Amount decimal.Decimal
}

// InstallmentFor returns the 1-based installment index due in target and its
// amount. ok is false when nothing is due in target.
func InstallmentFor(p models.Purchase, target calendar.Month) (number int, amount decimal.Decimal, ok bool) {
	if p.InstallmentCount <= 0 {
		return 0, decimal.Zero, false
	}

	k := target.Sub(p.FirstMonth()) + 1
	if k < 1 || k > p.InstallmentCount {
		return 0, decimal.Zero, false
	}

	if p.IsSinglePayment() {
		return 1, p.TotalAmount, true
	}
	if k == p.InstallmentCount {
		return k, LastInstallmentAmount(p.TotalAmount, p.InstallmentCount), true
	}
	return k, InstallmentAmount(p.TotalAmount, p.InstallmentCount), true
}

// ResolveInstallment returns the amount of p due in target, if any.
func ResolveInstallment(p models.Purchase, target calendar.Month) (decimal.Decimal, bool) {
	_, amount, ok := InstallmentFor(p, target)
	return amount, ok
}

// Schedule lists every installment of p in month order.
func Schedule(p models.Purchase) []Entry {
	if p.InstallmentCount <= 0 {
		return nil
	}
	first := p.FirstMonth()
	entries := make([]Entry, 0, p.InstallmentCount)
	for k := 1; k <= p.InstallmentCount; k++ {
		month := first.AddMonths(k - 1)
		_, amount, _ := InstallmentFor(p, month)
		entries = append(entries, Entry{Month: month, Number: k, Amount: amount})
	}
	return entries
}
