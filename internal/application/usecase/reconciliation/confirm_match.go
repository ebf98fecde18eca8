// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/domain/valueobject"
)

// ConfirmMatchInput represents the input for manually confirming a match.
type ConfirmMatchInput struct {
	StatementID   uuid.UUID
	TransactionID uuid.UUID
	Candidate     valueobject.MatchCandidate
}

// ConfirmMatchUseCase handles a human confirming a suggested (or arbitrary)
// candidate for a transaction.
type ConfirmMatchUseCase struct {
	registry *SessionRegistry
}

// NewConfirmMatchUseCase creates a new ConfirmMatchUseCase instance.
func NewConfirmMatchUseCase(registry *SessionRegistry) *ConfirmMatchUseCase {
	return &ConfirmMatchUseCase{registry: registry}
}

// Execute confirms the match and returns the updated review snapshot.
func (uc *ConfirmMatchUseCase) Execute(ctx context.Context, input ConfirmMatchInput) (*valueobject.ReviewState, error) {
	session, err := sessionFor(uc.registry, input.StatementID)
	if err != nil {
		return nil, err
	}
	return session.ConfirmMatch(ctx, input.TransactionID, input.Candidate)
}
