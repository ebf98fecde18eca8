// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"
)

// ResetSessionInput represents the input for resetting a session.
type ResetSessionInput struct {
	StatementID uuid.UUID
}

// ResetSessionUseCase discards the in-memory session state for a statement.
// Persisted statement and transaction records are not touched; a new
// session can be started afterwards.
type ResetSessionUseCase struct {
	registry *SessionRegistry
}

// NewResetSessionUseCase creates a new ResetSessionUseCase instance.
func NewResetSessionUseCase(registry *SessionRegistry) *ResetSessionUseCase {
	return &ResetSessionUseCase{registry: registry}
}

// Execute removes the session. Resetting a statement without an active
// session is a no-op.
func (uc *ResetSessionUseCase) Execute(_ context.Context, input ResetSessionInput) error {
	uc.registry.Remove(input.StatementID)
	return nil
}
