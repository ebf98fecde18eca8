// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankrecon/backend/internal/application/adapter"
	"github.com/bankrecon/backend/internal/domain/entity"
	"github.com/bankrecon/backend/internal/domain/valueobject"
)

// summarize recomputes the reconciliation summary from scratch.
//
// Deposit and withdrawal totals cover every transaction regardless of
// status. The book balance reflects only confirmed reconciliation: matched
// invoice totals minus matched expense amounts, resolved through the
// accounting snapshot. Transactions in any other status contribute nothing
// to it.
func summarize(transactions []*entity.BankTransaction, snapshot *adapter.RecordsSnapshot, bankEndingBalance decimal.Decimal) valueobject.ReconciliationSummary {
	expenseAmounts := make(map[uuid.UUID]decimal.Decimal, len(snapshot.Expenses))
	for _, e := range snapshot.Expenses {
		expenseAmounts[e.ID] = e.Amount
	}
	invoiceTotals := make(map[uuid.UUID]decimal.Decimal, len(snapshot.Invoices))
	for _, i := range snapshot.Invoices {
		invoiceTotals[i.ID] = i.Total
	}

	var counts valueobject.StatusCounts
	deposits := decimal.Zero
	withdrawals := decimal.Zero
	book := decimal.Zero

	for _, tx := range transactions {
		switch tx.MatchStatus {
		case entity.MatchStatusUnmatched:
			counts.Unmatched++
		case entity.MatchStatusSuggested:
			counts.Suggested++
		case entity.MatchStatusMatched:
			counts.Matched++
		case entity.MatchStatusDiscrepancy:
			counts.Discrepancy++
		case entity.MatchStatusIgnored:
			counts.Ignored++
		}

		if tx.Amount.IsPositive() {
			deposits = deposits.Add(tx.Amount)
		} else if tx.Amount.IsNegative() {
			withdrawals = withdrawals.Add(tx.Amount.Abs())
		}

		if tx.MatchStatus != entity.MatchStatusMatched || tx.Matched == nil {
			continue
		}
		switch tx.Matched.Type {
		case entity.MatchedTypeInvoice:
			if total, ok := invoiceTotals[tx.Matched.RecordID]; ok {
				book = book.Add(total)
			}
		case entity.MatchedTypeExpense:
			if amount, ok := expenseAmounts[tx.Matched.RecordID]; ok {
				book = book.Sub(amount.Abs())
			}
		}
	}

	return valueobject.ReconciliationSummary{
		Counts:           counts,
		TotalDeposits:    deposits,
		TotalWithdrawals: withdrawals,
		BankBalance:      bankEndingBalance,
		BookBalance:      book,
		Variance:         bankEndingBalance.Sub(book),
	}
}
