// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/domain/valueobject"
)

// GetReviewInput represents the input for reading the review state.
type GetReviewInput struct {
	StatementID uuid.UUID
}

// GetReviewUseCase returns the current review snapshot of a session.
type GetReviewUseCase struct {
	registry *SessionRegistry
}

// NewGetReviewUseCase creates a new GetReviewUseCase instance.
func NewGetReviewUseCase(registry *SessionRegistry) *GetReviewUseCase {
	return &GetReviewUseCase{registry: registry}
}

// Execute returns the session's current ReviewState.
func (uc *GetReviewUseCase) Execute(_ context.Context, input GetReviewInput) (*valueobject.ReviewState, error) {
	session, err := sessionFor(uc.registry, input.StatementID)
	if err != nil {
		return nil, err
	}
	return session.State(), nil
}
