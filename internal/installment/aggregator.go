package installment

import (
	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/Dan9191/installment-service/internal/models"
	"github.com/shopspring/decimal"
)

// MonthlyTotal sums the installments due in month across purchases.
func MonthlyTotal(purchases []models.Purchase, month calendar.Month) decimal.Decimal {
	total := decimal.Zero
	for _, p := range purchases {
		if amount, ok := ResolveInstallment(p, month); ok {
			total = total.Add(amount)
		}
	}
	return total
}

// InstallmentsDueInMonth lists the installments due in month, in input order.
func InstallmentsDueInMonth(purchases []models.Purchase, month calendar.Month) []models.LineItem {
	items := make([]models.LineItem, 0)
	for _, p := range purchases {
		number, amount, ok := InstallmentFor(p, month)
		if !ok || amount.IsZero() {
			continue
		}
		items = append(items, models.LineItem{
			PurchaseID:        p.ID,
			UserID:            p.UserID,
			CardID:            p.CardID,
			Amount:            amount,
			InstallmentNumber: number,
			TotalInstallments: p.InstallmentCount,
			Description:       p.DisplayName(),
			Currency:          p.Currency,
		})
	}
	return items
}

// Projection returns the month totals for count months starting at start.
func Projection(purchases []models.Purchase, start calendar.Month, count int) []models.MonthTotal {
	months := calendar.FutureMonths(start, count)
	totals := make([]models.MonthTotal, 0, len(months))
	for _, m := range months {
		totals = append(totals, models.MonthTotal{Month: m, Total: MonthlyTotal(purchases, m)})
	}
	return totals
}

// TotalSpending sums the full purchase amounts.
func TotalSpending(purchases []models.Purchase) decimal.Decimal {
	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(p.TotalAmount)
	}
	return total
}

// ByUser keeps the purchases owned by userID.
func ByUser(purchases []models.Purchase, userID string) []models.Purchase {
	return filter(purchases, func(p models.Purchase) bool { return p.UserID == userID })
}

// ByCard keeps the purchases charged to cardID.
func ByCard(purchases []models.Purchase, cardID string) []models.Purchase {
	return filter(purchases, func(p models.Purchase) bool { return p.CardID == cardID })
}

func filter(purchases []models.Purchase, keep func(models.Purchase) bool) []models.Purchase {
	out := make([]models.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
