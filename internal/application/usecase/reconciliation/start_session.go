// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/application/adapter"
	"github.com/bankrecon/backend/internal/domain/entity"
	domainerror "github.com/bankrecon/backend/internal/domain/error"
	"github.com/bankrecon/backend/internal/domain/valueobject"
)

// StartSessionInput represents the input for starting a reconciliation session.
type StartSessionInput struct {
	CompanyID   uuid.UUID
	StatementID uuid.UUID
}

// StartSessionUseCase handles the upload-to-review transition: it loads the
// parsed statement, snapshots the accounting records and runs the
// auto-match pass.
type StartSessionUseCase struct {
	repo     adapter.ReconciliationRepository
	records  adapter.AccountingRecordsProvider
	registry *SessionRegistry
	config   SessionConfig
}

// NewStartSessionUseCase creates a new StartSessionUseCase instance.
func NewStartSessionUseCase(
	repo adapter.ReconciliationRepository,
	records adapter.AccountingRecordsProvider,
	registry *SessionRegistry,
	config SessionConfig,
) *StartSessionUseCase {
	return &StartSessionUseCase{
		repo:     repo,
		records:  records,
		registry: registry,
		config:   config,
	}
}

// Execute starts (or restarts) the reconciliation session for a statement
// and returns the first review snapshot.
func (uc *StartSessionUseCase) Execute(ctx context.Context, input StartSessionInput) (*valueobject.ReviewState, error) {
	stmt, err := uc.repo.GetStatement(ctx, input.StatementID, input.CompanyID)
	if err != nil {
		return nil, err
	}

	if stmt.Status != entity.StatementStatusParsed && stmt.Status != entity.StatementStatusReconciled {
		return nil, domainerror.NewStatementError(
			domainerror.ErrCodeStatementNotParsed,
			"bank statement has not been parsed",
			domainerror.ErrStatementNotParsed,
		)
	}

	transactions, err := uc.repo.ListTransactions(ctx, stmt.ID)
	if err != nil {
		return nil, err
	}

	snapshot, err := uc.records.GetSnapshot(ctx, input.CompanyID, uc.config.SnapshotLimit)
	if err != nil {
		return nil, err
	}

	session := newSession(uc.repo, uc.config, stmt, transactions, snapshot)
	if err := session.RunAutoMatch(ctx); err != nil {
		return nil, err
	}

	uc.registry.Put(stmt.ID, session)
	return session.State(), nil
}
