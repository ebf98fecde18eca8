// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/domain/entity"
)

// RecordsSnapshot is the read-only set of accounting records a session
// matches against. The snapshot is treated as complete for the session;
// the engine does not paginate further.
type RecordsSnapshot struct {
	Expenses []*entity.Expense
	Invoices []*entity.PaidInvoice
}

// AccountingRecordsProvider supplies bounded lists of expenses and paid
// invoices for a company. Implementations may cache; records are read-only
// for the duration of a session.
type AccountingRecordsProvider interface {
	// GetSnapshot returns the most recent accounting records for a company,
	// bounded by limit per record kind.
	GetSnapshot(ctx context.Context, companyID uuid.UUID, limit int) (*RecordsSnapshot, error)
}
