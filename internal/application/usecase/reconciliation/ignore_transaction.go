// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/domain/valueobject"
)

// IgnoreTransactionInput represents the input for ignoring a transaction.
type IgnoreTransactionInput struct {
	StatementID   uuid.UUID
	TransactionID uuid.UUID
}

// IgnoreTransactionUseCase handles excluding a transaction from reconciliation.
type IgnoreTransactionUseCase struct {
	registry *SessionRegistry
}

// NewIgnoreTransactionUseCase creates a new IgnoreTransactionUseCase instance.
func NewIgnoreTransactionUseCase(registry *SessionRegistry) *IgnoreTransactionUseCase {
	return &IgnoreTransactionUseCase{registry: registry}
}

// Execute marks the transaction ignored and returns the updated review snapshot.
func (uc *IgnoreTransactionUseCase) Execute(ctx context.Context, input IgnoreTransactionInput) (*valueobject.ReviewState, error) {
	session, err := sessionFor(uc.registry, input.StatementID)
	if err != nil {
		return nil, err
	}
	return session.Ignore(ctx, input.TransactionID)
}
