// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/domain/valueobject"
)

// CompleteSessionInput represents the input for completing a session.
type CompleteSessionInput struct {
	StatementID uuid.UUID
	Force       bool // Allow completion even with a variance outside tolerance
}

// CompleteSessionUseCase handles the review-to-complete transition.
type CompleteSessionUseCase struct {
	registry *SessionRegistry
}

// NewCompleteSessionUseCase creates a new CompleteSessionUseCase instance.
func NewCompleteSessionUseCase(registry *SessionRegistry) *CompleteSessionUseCase {
	return &CompleteSessionUseCase{registry: registry}
}

// Execute completes the session and returns the final snapshot.
func (uc *CompleteSessionUseCase) Execute(ctx context.Context, input CompleteSessionInput) (*valueobject.ReviewState, error) {
	session, err := sessionFor(uc.registry, input.StatementID)
	if err != nil {
		return nil, err
	}
	return session.Complete(ctx, input.Force)
}
