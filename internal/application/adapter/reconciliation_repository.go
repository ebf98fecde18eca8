// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/domain/entity"
)

// MatchUpdate carries the per-transaction fields the reconciliation engine
// is allowed to mutate. ExpectedVersion is the version the caller last read;
// the store rejects the write when it no longer matches.
type MatchUpdate struct {
	TransactionID   uuid.UUID
	ExpectedVersion int
	Status          entity.MatchStatus
	Matched         *entity.MatchedRecord // nil clears both matched references
}

// ReconciliationRepository defines persistence operations for bank
// statements and their transactions.
type ReconciliationRepository interface {
	// CreateStatement persists a new bank statement.
	CreateStatement(ctx context.Context, statement *entity.BankStatement) error

	// GetStatement retrieves a statement by ID with company ownership verification.
	GetStatement(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (*entity.BankStatement, error)

	// UpdateStatement persists parser results and status transitions on a statement.
	UpdateStatement(ctx context.Context, statement *entity.BankStatement) error

	// CreateTransactions persists the transaction lines produced by the parser.
	CreateTransactions(ctx context.Context, transactions []*entity.BankTransaction) error

	// ListTransactions retrieves all transactions of a statement in statement order.
	ListTransactions(ctx context.Context, statementID uuid.UUID) ([]*entity.BankTransaction, error)

	// UpdateTransactionMatch writes the match status and matched record of one
	// transaction. It returns domain ErrMatchConflict when the stored version
	// differs from ExpectedVersion, and increments the version on success.
	UpdateTransactionMatch(ctx context.Context, update MatchUpdate) error
}
