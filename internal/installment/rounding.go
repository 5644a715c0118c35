package installment

import "github.com/shopspring/decimal"

var two = decimal.NewFromInt(2)

// Round2 rounds half up to cents. Amounts are non-negative, so this matches
// decimal's half-away-from-zero rounding.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// InstallmentAmount is round2(total / count), computed exactly on cents so a
// repeating quotient never rounds the wrong way.
func InstallmentAmount(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	if count == 1 {
		return total
	}
	n := decimal.NewFromInt(int64(count))
	q, r := total.Shift(2).QuoRem(n, 0)
	if r.Mul(two).GreaterThanOrEqual(n) {
		q = q.Add(decimal.NewFromInt(1))
	}
	return q.Shift(-2)
}

// LastInstallmentAmount absorbs the rounding remainder so the schedule sums
// exactly to total.
func LastInstallmentAmount(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 1 {
		return total
	}
	return total.Sub(InstallmentAmount(total, count).Mul(decimal.NewFromInt(int64(count - 1))))
}
