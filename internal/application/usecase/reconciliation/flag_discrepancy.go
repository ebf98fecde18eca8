// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/domain/valueobject"
)

// FlagDiscrepancyInput represents the input for flagging a discrepancy.
type FlagDiscrepancyInput struct {
	StatementID   uuid.UUID
	TransactionID uuid.UUID
}

// FlagDiscrepancyUseCase handles marking a transaction as a discrepancy
// that needs follow-up outside the matching engine.
type FlagDiscrepancyUseCase struct {
	registry *SessionRegistry
}

// NewFlagDiscrepancyUseCase creates a new FlagDiscrepancyUseCase instance.
func NewFlagDiscrepancyUseCase(registry *SessionRegistry) *FlagDiscrepancyUseCase {
	return &FlagDiscrepancyUseCase{registry: registry}
}

// Execute flags the transaction and returns the updated review snapshot.
func (uc *FlagDiscrepancyUseCase) Execute(ctx context.Context, input FlagDiscrepancyInput) (*valueobject.ReviewState, error) {
	session, err := sessionFor(uc.registry, input.StatementID)
	if err != nil {
		return nil, err
	}
	return session.FlagDiscrepancy(ctx, input.TransactionID)
}
