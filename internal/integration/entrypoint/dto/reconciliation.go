// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/bankrecon/backend/internal/domain/valueobject"
)

// MatchCandidateDTO represents one scored match candidate.
type MatchCandidateDTO struct {
	Type        string `json:"type"`
	RecordID    string `json:"record_id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Confidence  int    `json:"confidence"`
	Reason      string `json:"reason"`
}

// MatchSuggestionDTO represents the ranked candidates retained for one transaction.
type MatchSuggestionDTO struct {
	TransactionID string              `json:"transaction_id"`
	Tier          string              `json:"tier"`
	Candidates    []MatchCandidateDTO `json:"candidates"`
}

// StatusCountsDTO contains per-status transaction counts.
type StatusCountsDTO struct {
	Unmatched   int `json:"unmatched"`
	Suggested   int `json:"suggested"`
	Matched     int `json:"matched"`
	Discrepancy int `json:"discrepancy"`
	Ignored     int `json:"ignored"`
	Total       int `json:"total"`
}

// ReconciliationSummaryDTO contains the derived totals for one statement.
type ReconciliationSummaryDTO struct {
	Counts           StatusCountsDTO `json:"counts"`
	TotalDeposits    string          `json:"total_deposits"`
	TotalWithdrawals string          `json:"total_withdrawals"`
	BankBalance      string          `json:"bank_balance"`
	BookBalance      string          `json:"book_balance"`
	Variance         string          `json:"variance"`
}

// ReviewStateResponseDTO represents the full state of a reconciliation session.
type ReviewStateResponseDTO struct {
	Stage                string                   `json:"stage"`
	Statement            StatementResponseDTO     `json:"statement"`
	Transactions         []BankTransactionDTO     `json:"transactions"`
	Suggestions          []MatchSuggestionDTO     `json:"suggestions"`
	Summary              ReconciliationSummaryDTO `json:"summary"`
	FailedTransactionIDs []string                 `json:"failed_transaction_ids,omitempty"`
}

// ConfirmMatchRequestDTO represents the request for confirming a match.
type ConfirmMatchRequestDTO struct {
	Type     string `json:"type" binding:"required,oneof=expense invoice"`
	RecordID string `json:"record_id" binding:"required,uuid"`
}

// CompleteSessionRequestDTO represents the request for completing a session.
type CompleteSessionRequestDTO struct {
	Force bool `json:"force"`
}

// ToMatchSuggestionDTO converts a MatchSuggestion value object to its DTO.
func ToMatchSuggestionDTO(s valueobject.MatchSuggestion) MatchSuggestionDTO {
	candidates := make([]MatchCandidateDTO, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		candidates = append(candidates, MatchCandidateDTO{
			Type:        string(c.Type),
			RecordID:    c.RecordID.String(),
			Description: c.Description,
			Amount:      c.Amount.StringFixed(2),
			Date:        c.Date.Format(dateLayout),
			Confidence:  c.Confidence,
			Reason:      c.Reason,
		})
	}
	return MatchSuggestionDTO{
		TransactionID: s.TransactionID.String(),
		Tier:          string(s.Tier),
		Candidates:    candidates,
	}
}

// ToReconciliationSummaryDTO converts a ReconciliationSummary value object to its DTO.
func ToReconciliationSummaryDTO(s valueobject.ReconciliationSummary) ReconciliationSummaryDTO {
	return ReconciliationSummaryDTO{
		Counts: StatusCountsDTO{
			Unmatched:   s.Counts.Unmatched,
			Suggested:   s.Counts.Suggested,
			Matched:     s.Counts.Matched,
			Discrepancy: s.Counts.Discrepancy,
			Ignored:     s.Counts.Ignored,
			Total:       s.Counts.Total(),
		},
		TotalDeposits:    s.TotalDeposits.StringFixed(2),
		TotalWithdrawals: s.TotalWithdrawals.StringFixed(2),
		BankBalance:      s.BankBalance.StringFixed(2),
		BookBalance:      s.BookBalance.StringFixed(2),
		Variance:         s.Variance.StringFixed(2),
	}
}

// ToReviewStateResponseDTO converts a ReviewState snapshot to its DTO.
func ToReviewStateResponseDTO(state *valueobject.ReviewState) ReviewStateResponseDTO {
	suggestions := make([]MatchSuggestionDTO, 0, len(state.Suggestions))
	for _, s := range state.Suggestions {
		suggestions = append(suggestions, ToMatchSuggestionDTO(s))
	}

	failed := make([]string, 0, len(state.FailedTransactionIDs))
	for _, id := range state.FailedTransactionIDs {
		failed = append(failed, id.String())
	}

	return ReviewStateResponseDTO{
		Stage:                string(state.Stage),
		Statement:            ToStatementResponseDTO(state.Statement, len(state.Transactions)),
		Transactions:         ToBankTransactionDTOs(state.Transactions),
		Suggestions:          suggestions,
		Summary:              ToReconciliationSummaryDTO(state.Summary),
		FailedTransactionIDs: failed,
	}
}
