package installment

import (
	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/Dan9191/installment-service/internal/models"
)

// RemainingInstallments counts the unpaid installments of p as of ref, using
// the same anchoring as OutstandingDebt.
func RemainingInstallments(p models.Purchase, ref calendar.Month) int {
	if p.InstallmentCount <= 0 {
		return 0
	}
	return max(0, p.InstallmentCount-PaidInstallments(p, ref))
}

// RemainingInstallmentCount sums RemainingInstallments over purchases.
func RemainingInstallmentCount(purchases []models.Purchase, ref calendar.Month) int {
	total := 0
	for _, p := range purchases {
		total += RemainingInstallments(p, ref)
	}
	return total
}
