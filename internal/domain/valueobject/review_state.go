// Package valueobject contains domain value objects for the reconciliation engine.
package valueobject

import (
	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/domain/entity"
)

// SessionStage represents the stage of a reconciliation session.
type SessionStage string

const (
	SessionStageUpload   SessionStage = "upload"
	SessionStageReview   SessionStage = "review"
	SessionStageComplete SessionStage = "complete"
)

// ReviewState is an immutable snapshot of a reconciliation session. Each
// session transition produces a fresh value; callers never observe a
// partially updated snapshot.
type ReviewState struct {
	Stage                SessionStage
	Statement            *entity.BankStatement
	Transactions         []*entity.BankTransaction
	Suggestions          []MatchSuggestion
	Summary              ReconciliationSummary
	FailedTransactionIDs []uuid.UUID // Status writes that did not persist during the auto-match pass
}

// SuggestionFor returns the suggestion retained for the given transaction,
// or nil when the transaction has none.
func (s *ReviewState) SuggestionFor(transactionID uuid.UUID) *MatchSuggestion {
	for i := range s.Suggestions {
		if s.Suggestions[i].TransactionID == transactionID {
			return &s.Suggestions[i]
		}
	}
	return nil
}
