package installment

import (
	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/Dan9191/installment-service/internal/models"
)

// ProgressAt reports how far p has been paid as of ref.
func ProgressAt(p models.Purchase, ref calendar.Month) models.PurchaseProgress {
	paid := PaidInstallments(p, ref)
	remaining := remainingBalance(p, paid)
	progress := models.PurchaseProgress{
		Purchase:              p,
		InstallmentAmount:     InstallmentAmount(p.TotalAmount, p.InstallmentCount),
		PaidInstallments:      paid,
		RemainingInstallments: RemainingInstallments(p, ref),
		PaidAmount:            p.TotalAmount.Sub(remaining),
		RemainingAmount:       remaining,
	}
	if number, amount, ok := InstallmentFor(p, ref); ok {
		progress.DueThisMonth = &amount
		progress.InstallmentNumber = number
	}
	return progress
}

// ProgressForAll applies ProgressAt to every purchase, in input order.
func ProgressForAll(purchases []models.Purchase, ref calendar.Month) []models.PurchaseProgress {
	out := make([]models.PurchaseProgress, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, ProgressAt(p, ref))
	}
	return out
}
