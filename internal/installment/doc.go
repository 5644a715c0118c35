// Package installment computes installment schedules, monthly totals,
// outstanding debt and remaining installment counts for a snapshot of
// purchases.
//
// Every function is pure: inputs are plain slices and a month, nothing is
// mutated and nothing is cached. Purchases are expected to have passed
// validation.Purchase; the calculators do not re-check them.
//
// Outstanding debt and remaining installments are anchored at the start of
// the reference month, and the reference month's own installment counts as
// unpaid.
package installment
