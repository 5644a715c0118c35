package installment

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/installment-service/internal/calendar"
	"github.com/Dan9191/installment-service/internal/models"
)

func purchase(id, total string, count int, first string) models.Purchase {
	return models.Purchase{
		ID:                   id,
		UserID:               "user-1",
		StoreName:            "Store " + id,
		TotalAmount:          decimal.RequireFromString(total),
		InstallmentCount:     count,
		FirstInstallmentDate: calendar.MustDate(first),
		Currency:             models.DefaultCurrency,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestResolveInstallment_MultiInstallment(t *testing.T) {
	p := purchase("p1", "1200", 12, "2024-01-01")

	amount, ok := ResolveInstallment(p, calendar.MustMonth("2024-01"))
	require.True(t, ok)
	assertDecimal(t, "100.00", amount)

	amount, ok = ResolveInstallment(p, calendar.MustMonth("2024-06"))
	require.True(t, ok)
	assertDecimal(t, "100.00", amount)

	amount, ok = ResolveInstallment(p, calendar.MustMonth("2024-12"))
	require.True(t, ok)
	assertDecimal(t, "100.00", amount)

	_, ok = ResolveInstallment(p, calendar.MustMonth("2025-01"))
	assert.False(t, ok, "13th month is out of range")

	_, ok = ResolveInstallment(p, calendar.MustMonth("2023-12"))
	assert.False(t, ok, "month before the first installment")
}

func TestResolveInstallment_SinglePayment(t *testing.T) {
	p := purchase("p1", "250.50", 1, "2024-01-15")

	amount, ok := ResolveInstallment(p, calendar.MustMonth("2024-01"))
	require.True(t, ok)
	assertDecimal(t, "250.50", amount)

	for _, m := range []string{"2023-12", "2024-02", "2025-01"} {
		_, ok := ResolveInstallment(p, calendar.MustMonth(m))
		assert.False(t, ok, m)
	}
}

func TestResolveInstallment_RemainderAbsorbedByLastInstallment(t *testing.T) {
	p := purchase("p1", "100", 3, "2024-03-10")

	schedule := Schedule(p)
	require.Len(t, schedule, 3)
	assertDecimal(t, "33.33", schedule[0].Amount)
	assertDecimal(t, "33.33", schedule[1].Amount)
	assertDecimal(t, "33.34", schedule[2].Amount)
	assert.Equal(t, calendar.MustMonth("2024-05"), schedule[2].Month)
	assert.Equal(t, 3, schedule[2].Number)
}

func TestInstallmentAmount_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		total string
		count int
		want  string
		last  string
	}{
		{"100", 3, "33.33", "33.34"},
		{"200", 3, "66.67", "66.66"},
		{"0.05", 2, "0.03", "0.02"},
		{"1000", 7, "142.86", "142.84"},
		{"10", 4, "2.5", "2.5"},
		{"99.99", 1, "99.99", "99.99"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.total, tt.count), func(t *testing.T) {
			assertDecimal(t, tt.want, InstallmentAmount(dec(tt.total), tt.count))
			assertDecimal(t, tt.last, LastInstallmentAmount(dec(tt.total), tt.count))
		})
	}
}

func TestSchedule_TotalReconstruction(t *testing.T) {
	totals := []string{"100", "1000", "0.07", "1234.56", "999.99", "50000", "17.01"}
	for _, total := range totals {
		for count := 1; count <= 36; count++ {
			p := purchase("p", total, count, "2023-11-30")

			sum := decimal.Zero
			first := p.FirstMonth()
			// Walk a window wider than the schedule so stray months would show up.
			for m := first.AddMonths(-2); !m.After(first.AddMonths(count + 2)); m = m.Next() {
				if amount, ok := ResolveInstallment(p, m); ok {
					sum = sum.Add(amount)
				}
			}
			assert.True(t, sum.Equal(p.TotalAmount), "total %s count %d: sum %s", total, count, sum)
			assert.Len(t, Schedule(p), count)
		}
	}
}

func TestTotalOutstandingDebt_SinglePaymentAnchoring(t *testing.T) {
	p := purchase("p1", "500", 1, "2024-01-15")
	purchases := []models.Purchase{p}

	assertDecimal(t, "500", TotalOutstandingDebt(purchases, calendar.MustMonth("2023-12")))
	assertDecimal(t, "500", TotalOutstandingDebt(purchases, calendar.MustMonth("2024-01")))
	assertDecimal(t, "0", TotalOutstandingDebt(purchases, calendar.MustMonth("2024-02")))
}

func TestTotalOutstandingDebt_SinglePaymentOnFirstDay(t *testing.T) {
	p := purchase("p1", "80", 1, "2024-02-01")

	assertDecimal(t, "80", OutstandingDebt(p, calendar.MustMonth("2024-02")))
	assertDecimal(t, "0", OutstandingDebt(p, calendar.MustMonth("2024-03")))
}

func TestTotalOutstandingDebt_MultiInstallment(t *testing.T) {
	p := purchase("p1", "1200", 12, "2024-01-01")

	tests := []struct {
		month string
		want  string
	}{
		{"2023-06", "1200"},
		{"2024-01", "1200"},
		{"2024-02", "1100"},
		{"2024-06", "700"},
		{"2024-12", "100"},
		{"2025-01", "0"},
		{"2030-01", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			assertDecimal(t, tt.want, OutstandingDebt(p, calendar.MustMonth(tt.month)))
		})
	}
}

func TestTotalOutstandingDebt_UnevenSplits(t *testing.T) {
	tests := []struct {
		total string
		count int
		first string
		month string
		want  string
	}{
		{"100", 3, "2024-01-20", "2024-01", "100"},
		{"100", 3, "2024-01-20", "2024-02", "66.67"},
		{"100", 3, "2024-01-20", "2024-03", "33.33"},
		{"100", 3, "2024-01-20", "2024-04", "0"},
		{"200", 3, "2024-01-01", "2024-03", "66.67"},
		{"1000", 7, "2024-01-01", "2024-07", "142.86"},
		{"1000", 7, "2024-01-01", "2024-04", "571.43"},
		{"12345.67", 24, "2022-09-01", "2024-08", "514.40"},
	}
	for _, tt := range tests {
		t.Run(tt.total+"/"+tt.month, func(t *testing.T) {
			p := purchase("p", tt.total, tt.count, tt.first)
			assertDecimal(t, tt.want, OutstandingDebt(p, calendar.MustMonth(tt.month)))
		})
	}
}

func TestTotalOutstandingDebt_IncludesReferenceMonthInstallment(t *testing.T) {
	purchases := []models.Purchase{
		purchase("a", "100", 3, "2024-01-20"),
		purchase("b", "1000", 7, "2023-10-05"),
		purchase("c", "45.90", 1, "2024-02-28"),
		purchase("d", "12345.67", 24, "2022-09-01"),
	}

	for _, p := range purchases {
		prev := p.TotalAmount
		for m := calendar.MustMonth("2022-06"); m.Before(calendar.MustMonth("2025-06")); m = m.Next() {
			debt := OutstandingDebt(p, m)

			// The installment due at m is still owed.
			if _, ok := ResolveInstallment(p, m); ok {
				assert.True(t, debt.IsPositive(), "%s at %s: debt %s", p.ID, m, debt)
			}
			assert.True(t, debt.LessThanOrEqual(prev), "%s at %s: debt %s grew from %s", p.ID, m, debt, prev)
			prev = debt
		}
		assert.True(t, prev.IsZero(), "%s: debt %s after the schedule ended", p.ID, prev)
	}
}

func TestTotalOutstandingDebt_SumsPurchases(t *testing.T) {
	purchases := []models.Purchase{
		purchase("a", "100", 3, "2024-01-20"),
		purchase("b", "600", 6, "2024-03-01"),
		purchase("c", "90", 1, "2024-02-10"),
	}
	// a: 2 installments left (66.67); b: future, full 600; c: due this month.
	assertDecimal(t, "756.67", TotalOutstandingDebt(purchases, calendar.MustMonth("2024-02")))
	assertDecimal(t, "0", TotalOutstandingDebt(nil, calendar.MustMonth("2024-02")))
}

func TestRemainingInstallmentCount_DecreasesByOne(t *testing.T) {
	p := purchase("p1", "1200", 12, "2024-01-01")
	purchases := []models.Purchase{p}

	assert.Equal(t, 12, RemainingInstallmentCount(purchases, calendar.MustMonth("2023-08")))

	prev := RemainingInstallmentCount(purchases, calendar.MustMonth("2024-01"))
	assert.Equal(t, 12, prev)
	for m := calendar.MustMonth("2024-02"); m.Before(calendar.MustMonth("2025-01")); m = m.Next() {
		got := RemainingInstallmentCount(purchases, m)
		assert.Equal(t, prev-1, got, m.String())
		prev = got
	}
	for _, m := range []string{"2025-01", "2025-02", "2027-07"} {
		assert.Equal(t, 0, RemainingInstallmentCount(purchases, calendar.MustMonth(m)), m)
	}
}

func TestRemainingInstallmentCount_SinglePayment(t *testing.T) {
	purchases := []models.Purchase{purchase("p1", "75", 1, "2024-01-15")}

	assert.Equal(t, 1, RemainingInstallmentCount(purchases, calendar.MustMonth("2023-12")))
	assert.Equal(t, 1, RemainingInstallmentCount(purchases, calendar.MustMonth("2024-01")))
	assert.Equal(t, 0, RemainingInstallmentCount(purchases, calendar.MustMonth("2024-02")))
}

func TestRemainingInstallmentCount_Mixed(t *testing.T) {
	purchases := []models.Purchase{
		purchase("a", "100", 3, "2024-01-20"),
		purchase("b", "600", 6, "2024-03-01"),
		purchase("c", "90", 1, "2024-02-10"),
	}
	assert.Equal(t, 2+6+1, RemainingInstallmentCount(purchases, calendar.MustMonth("2024-02")))
}

func TestMonthlyTotalAndLineItems(t *testing.T) {
	a := purchase("a", "100", 3, "2024-01-20")
	b := purchase("b", "90", 1, "2024-02-10")
	b.StoreName = "Market"
	b.ProductName = "Coffee"
	c := purchase("c", "600", 6, "2024-03-01")
	c.StoreName = ""
	c.Description = "legacy note"
	purchases := []models.Purchase{a, b, c}

	month := calendar.MustMonth("2024-02")
	assertDecimal(t, "123.33", MonthlyTotal(purchases, month))

	items := InstallmentsDueInMonth(purchases, month)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].PurchaseID)
	assert.Equal(t, 2, items[0].InstallmentNumber)
	assert.Equal(t, 3, items[0].TotalInstallments)
	assert.Equal(t, "Store a", items[0].Description)
	assert.Equal(t, "b", items[1].PurchaseID)
	assert.Equal(t, "Market - Coffee", items[1].Description)
	assert.Equal(t, 1, items[1].InstallmentNumber)

	items = InstallmentsDueInMonth(purchases, calendar.MustMonth("2024-03"))
	require.Len(t, items, 2)
	assert.Equal(t, "legacy note", items[1].Description)
	assertDecimal(t, "33.34", items[0].Amount)

	assert.Empty(t, InstallmentsDueInMonth(purchases, calendar.MustMonth("2030-01")))
}

func TestMonthlyTotal_OrderIndependent(t *testing.T) {
	purchases := []models.Purchase{
		purchase("a", "100", 3, "2024-01-20"),
		purchase("b", "1000", 7, "2023-12-05"),
		purchase("c", "45.90", 1, "2024-02-28"),
	}
	reversed := []models.Purchase{purchases[2], purchases[1], purchases[0]}
	month := calendar.MustMonth("2024-02")

	assert.True(t, MonthlyTotal(purchases, month).Equal(MonthlyTotal(reversed, month)))
}

func TestProjection(t *testing.T) {
	purchases := []models.Purchase{
		purchase("a", "300", 3, "2024-01-20"),
		purchase("b", "50", 1, "2024-03-02"),
	}
	got := Projection(purchases, calendar.MustMonth("2023-12"), 5)
	require.Len(t, got, 5)

	want := []string{"0", "100", "100", "150", "0"}
	for i, w := range want {
		assert.Equal(t, calendar.MustMonth("2023-12").AddMonths(i), got[i].Month)
		assertDecimal(t, w, got[i].Total, got[i].Month.String())
	}
	assert.Empty(t, Projection(purchases, calendar.MustMonth("2024-01"), 0))
}

func TestResidualForUserMonth(t *testing.T) {
	month := calendar.MustMonth("2024-05")
	record := func(user, m, amount string) models.PaymentRecord {
		return models.PaymentRecord{UserID: user, Month: calendar.MustMonth(m), Amount: dec(amount)}
	}
	due := dec("500")

	t.Run("fully paid", func(t *testing.T) {
		records := []models.PaymentRecord{record("u1", "2024-05", "200"), record("u1", "2024-05", "300")}
		assertDecimal(t, "0", ResidualForUserMonth(due, records, "u1", month))
	})

	t.Run("overpaid is a credit", func(t *testing.T) {
		records := []models.PaymentRecord{record("u1", "2024-05", "600")}
		assertDecimal(t, "-100", ResidualForUserMonth(due, records, "u1", month))
	})

	t.Run("no payments", func(t *testing.T) {
		assertDecimal(t, "500", ResidualForUserMonth(due, nil, "u1", month))
	})

	t.Run("other users and months are ignored", func(t *testing.T) {
		records := []models.PaymentRecord{
			record("u2", "2024-05", "500"),
			record("u1", "2024-04", "500"),
			record("u1", "2024-05", "120.25"),
		}
		assertDecimal(t, "379.75", ResidualForUserMonth(due, records, "u1", month))
		assertDecimal(t, "120.25", TotalPaid(PaymentsFor(records, "u1", month)))
	})
}

func TestProgressAt(t *testing.T) {
	p := purchase("p1", "100", 3, "2024-01-20")

	progress := ProgressAt(p, calendar.MustMonth("2024-02"))
	assert.Equal(t, 1, progress.PaidInstallments)
	assert.Equal(t, 2, progress.RemainingInstallments)
	assertDecimal(t, "33.33", progress.PaidAmount)
	assertDecimal(t, "66.67", progress.RemainingAmount)
	assertDecimal(t, "33.33", progress.InstallmentAmount)
	require.NotNil(t, progress.DueThisMonth)
	assertDecimal(t, "33.33", *progress.DueThisMonth)
	assert.Equal(t, 2, progress.InstallmentNumber)

	progress = ProgressAt(p, calendar.MustMonth("2024-03"))
	assertDecimal(t, "66.67", progress.PaidAmount)
	assertDecimal(t, "33.33", progress.RemainingAmount)
	assertDecimal(t, "33.34", *progress.DueThisMonth)

	progress = ProgressAt(p, calendar.MustMonth("2024-04"))
	assert.Equal(t, 3, progress.PaidInstallments)
	assert.Equal(t, 0, progress.RemainingInstallments)
	assertDecimal(t, "100", progress.PaidAmount)
	assertDecimal(t, "0", progress.RemainingAmount)
	assert.Nil(t, progress.DueThisMonth)

	single := purchase("s", "40", 1, "2024-02-29")
	progress = ProgressAt(single, calendar.MustMonth("2024-02"))
	assert.Equal(t, 0, progress.PaidInstallments)
	assert.Equal(t, 1, progress.RemainingInstallments)
	assertDecimal(t, "40", progress.RemainingAmount)
}

func TestCalculations_AreIdempotent(t *testing.T) {
	purchases := []models.Purchase{
		purchase("a", "100", 3, "2024-01-20"),
		purchase("b", "1000", 7, "2023-12-05"),
	}
	snapshot := make([]models.Purchase, len(purchases))
	copy(snapshot, purchases)
	month := calendar.MustMonth("2024-02")

	assert.True(t, MonthlyTotal(purchases, month).Equal(MonthlyTotal(purchases, month)))
	assert.True(t, TotalOutstandingDebt(purchases, month).Equal(TotalOutstandingDebt(purchases, month)))
	assert.Equal(t, RemainingInstallmentCount(purchases, month), RemainingInstallmentCount(purchases, month))
	assert.Equal(t, InstallmentsDueInMonth(purchases, month), InstallmentsDueInMonth(purchases, month))
	assert.Equal(t, snapshot, purchases, "inputs must not be mutated")
}

func TestByUserAndByCard(t *testing.T) {
	a := purchase("a", "10", 1, "2024-01-01")
	b := purchase("b", "10", 1, "2024-01-01")
	b.UserID = "user-2"
	b.CardID = "card-1"

	assert.Equal(t, []models.Purchase{a}, ByUser([]models.Purchase{a, b}, "user-1"))
	assert.Equal(t, []models.Purchase{b}, ByCard([]models.Purchase{a, b}, "card-1"))
	assert.Empty(t, ByCard([]models.Purchase{a, b}, "card-9"))
}
