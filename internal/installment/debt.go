package installment

import (
	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/Dan9191/installment-service/internal/models"
	"github.com/shopspring/decimal"
)

const divisionPrecision = 16

// PaidInstallments counts the installments of p that fell due strictly before
// ref. The installment due in ref itself is never counted.
//
// A single payment is paid when its charge date is before the first day of
// ref. For installment purchases the count is min(monthDiff, count), or zero
// while the first installment is still ahead of ref.
func PaidInstallments(p models.Purchase, ref calendar.Month) int {
	if p.InstallmentCount <= 0 {
		return 0
	}
	if p.IsSinglePayment() {
		if p.FirstInstallmentDate.Before(ref.FirstDay()) {
			return 1
		}
		return 0
	}

	monthDiff := ref.Sub(p.FirstMonth())
	if monthDiff < 0 {
		return 0
	}
	return min(monthDiff, p.InstallmentCount)
}

// OutstandingDebt is the balance of p still owed at the start of ref.
//
// The balance is total - (total/count)*paid with the division left unrounded;
// only the final subtraction is rounded to cents. Near the end of a schedule
// this can differ by a cent from the last installment the resolver reports.
func OutstandingDebt(p models.Purchase, ref calendar.Month) decimal.Decimal {
	if p.InstallmentCount <= 0 {
		return decimal.Zero
	}
	paid := PaidInstallments(p, ref)
	return remainingBalance(p, paid)
}

// TotalOutstandingDebt sums OutstandingDebt over purchases.
func TotalOutstandingDebt(purchases []models.Purchase, ref calendar.Month) decimal.Decimal {
	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(OutstandingDebt(p, ref))
	}
	return total
}

// paidAmount is the unrounded share of the total covered by paid installments.
func paidAmount(p models.Purchase, paid int) decimal.Decimal {
	switch {
	case paid <= 0:
		return decimal.Zero
	case paid >= p.InstallmentCount:
		return p.TotalAmount
	default:
		share := p.TotalAmount.DivRound(decimal.NewFromInt(int64(p.InstallmentCount)), divisionPrecision)
		return share.Mul(decimal.NewFromInt(int64(paid)))
	}
}

func remainingBalance(p models.Purchase, paid int) decimal.Decimal {
	if p.InstallmentCount-paid <= 0 {
		return decimal.Zero
	}
	return Round2(p.TotalAmount.Sub(paidAmount(p, paid)))
}
