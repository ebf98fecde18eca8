// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankrecon/backend/internal/domain/entity"
	"github.com/bankrecon/backend/internal/domain/valueobject"
)

const descriptionPrefixLen = 8

// scoreExpense computes the confidence score and reason for pairing a
// withdrawal transaction with an expense. Three independent heuristics are
// summed and clamped to 100.
func scoreExpense(config valueobject.MatchingConfig, tx *entity.BankTransaction, expense *entity.Expense) (int, string) {
	score := 0
	var reasons []string

	points, reason := scoreAmount(config, tx.Amount, expense.Amount)
	score += points
	if reason != "" {
		reasons = append(reasons, reason)
	}

	points, reason = scoreDate(config, tx.Date, expense.Date)
	score += points
	if reason != "" {
		reasons = append(reasons, reason)
	}

	vendor := strings.ToLower(strings.TrimSpace(expense.Vendor))
	description := strings.ToLower(tx.Description)
	switch {
	case vendor != "" && strings.Contains(description, vendor):
		score += config.TextStrongPoints
		reasons = append(reasons, "vendor name found in description")
	case descriptionPrefixesOverlap(tx.Description, expense.Description):
		score += config.TextWeakPoints
		reasons = append(reasons, "similar descriptions")
	}

	if score > 100 {
		score = 100
	}
	return score, strings.Join(reasons, ", ")
}

// scoreInvoice computes the confidence score and reason for pairing a
// deposit transaction with a paid invoice.
func scoreInvoice(config valueobject.MatchingConfig, tx *entity.BankTransaction, invoice *entity.PaidInvoice) (int, string) {
	score := 0
	var reasons []string

	points, reason := scoreAmount(config, tx.Amount, invoice.Total)
	score += points
	if reason != "" {
		reasons = append(reasons, reason)
	}

	if invoice.PaidAt != nil {
		points, reason = scoreDate(config, tx.Date, *invoice.PaidAt)
		score += points
		if reason != "" {
			reasons = append(reasons, reason)
		}
	}

	number := strings.ToLower(strings.TrimSpace(invoice.InvoiceNumber))
	if number != "" && strings.Contains(strings.ToLower(tx.Description), number) {
		score += config.TextStrongPoints
		reasons = append(reasons, "invoice number found in description")
	}

	if score > 100 {
		score = 100
	}
	return score, strings.Join(reasons, ", ")
}

// scoreAmount awards points for how close the candidate amount is to the
// transaction amount. Both amounts are compared by absolute value.
func scoreAmount(config valueobject.MatchingConfig, txAmount, candidateAmount decimal.Decimal) (int, string) {
	diff := txAmount.Abs().Sub(candidateAmount.Abs()).Abs()

	hundred := decimal.NewFromInt(100)
	pct := hundred
	if !txAmount.IsZero() {
		pct = diff.Div(txAmount.Abs()).Mul(hundred)
	}

	switch {
	case diff.LessThanOrEqual(config.AmountExactTolerance):
		return config.AmountExactPoints, "exact amount match"
	case pct.LessThanOrEqual(config.AmountClosePercent):
		return config.AmountClosePoints, "amount within 5%"
	case pct.LessThanOrEqual(config.AmountFarPercent):
		return config.AmountFarPoints, "amount within 15%"
	default:
		return 0, ""
	}
}

// scoreDate awards points for date proximity in whole days.
func scoreDate(config valueobject.MatchingConfig, txDate, candidateDate time.Time) (int, string) {
	days := daysApart(txDate, candidateDate)

	switch {
	case days <= config.DateSameDays:
		return config.DateSamePoints, "same-day or next-day date"
	case days <= config.DateCloseDays:
		return config.DateClosePoints, "date within 3 days"
	case days <= config.DateFarDays:
		return config.DateFarPoints, "date within 7 days"
	default:
		return 0, ""
	}
}

// daysApart returns the absolute difference between two dates in whole
// days, ignoring the time-of-day component.
func daysApart(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)

	days := int(da.Sub(db).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// descriptionPrefixesOverlap reports whether the first characters of each
// description appear in the other, case-insensitively. Empty descriptions
// never overlap.
func descriptionPrefixesOverlap(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, prefixOf(b)) && strings.Contains(b, prefixOf(a))
}

func prefixOf(s string) string {
	if len(s) > descriptionPrefixLen {
		return s[:descriptionPrefixLen]
	}
	return s
}
