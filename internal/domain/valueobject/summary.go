// Package valueobject contains domain value objects for the reconciliation engine.
package valueobject

import "github.com/shopspring/decimal"

// StatusCounts holds per-status transaction counts for one statement.
type StatusCounts struct {
	Unmatched   int
	Suggested   int
	Matched     int
	Discrepancy int
	Ignored     int
}

// Total returns the number of transactions across all statuses.
func (c StatusCounts) Total() int {
	return c.Unmatched + c.Suggested + c.Matched + c.Discrepancy + c.Ignored
}

// ReconciliationSummary aggregates transaction statuses and matched amounts
// for one statement. It is derived on demand and never persisted.
type ReconciliationSummary struct {
	Counts           StatusCounts
	TotalDeposits    decimal.Decimal // Sum of positive amounts, status-independent
	TotalWithdrawals decimal.Decimal // Sum of absolute negative amounts, status-independent
	BankBalance      decimal.Decimal // Statement ending balance
	BookBalance      decimal.Decimal // Matched invoice totals minus matched expense amounts
	Variance         decimal.Decimal // BankBalance - BookBalance
}

// IsReconciled reports whether the variance is within the given tolerance.
func (s ReconciliationSummary) IsReconciled(tolerance decimal.Decimal) bool {
	return s.Variance.Abs().LessThanOrEqual(tolerance)
}
