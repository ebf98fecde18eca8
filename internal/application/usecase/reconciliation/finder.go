// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"sort"

	"github.com/bankrecon/backend/internal/application/adapter"
	"github.com/bankrecon/backend/internal/domain/entity"
	"github.com/bankrecon/backend/internal/domain/valueobject"
)

// findMatches scores one transaction against the eligible accounting
// records and returns the viable candidates, sorted descending by
// confidence with stable ties. Withdrawals are scored against expenses,
// deposits against paid invoices. Candidates below the eligibility floor
// are discarded.
func findMatches(config valueobject.MatchingConfig, tx *entity.BankTransaction, snapshot *adapter.RecordsSnapshot) []valueobject.MatchCandidate {
	var candidates []valueobject.MatchCandidate

	if tx.IsDeposit() {
		for _, invoice := range snapshot.Invoices {
			if !invoice.IsEligible() {
				continue
			}
			score, reason := scoreInvoice(config, tx, invoice)
			if score < config.EligibilityFloor {
				continue
			}
			candidates = append(candidates, valueobject.MatchCandidate{
				Type:        entity.MatchedTypeInvoice,
				RecordID:    invoice.ID,
				Description: "Invoice " + invoice.InvoiceNumber + " - " + invoice.ClientName,
				Amount:      invoice.Total,
				Date:        *invoice.PaidAt,
				Confidence:  score,
				Reason:      reason,
			})
		}
	} else {
		for _, expense := range snapshot.Expenses {
			score, reason := scoreExpense(config, tx, expense)
			if score < config.EligibilityFloor {
				continue
			}
			candidates = append(candidates, valueobject.MatchCandidate{
				Type:        entity.MatchedTypeExpense,
				RecordID:    expense.ID,
				Description: expense.Description,
				Amount:      expense.Amount,
				Date:        expense.Date,
				Confidence:  score,
				Reason:      reason,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	return candidates
}
