// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"github.com/google/uuid"

	domainerror "github.com/bankrecon/backend/internal/domain/error"
)

// sessionFor resolves the active session for a statement.
func sessionFor(registry *SessionRegistry, statementID uuid.UUID) (*Session, error) {
	session, ok := registry.Get(statementID)
	if !ok {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeSessionNotFound,
			"no active reconciliation session for statement",
			domainerror.ErrSessionNotFound,
		)
	}
	return session, nil
}
