// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bankrecon/backend/internal/application/adapter"
	"github.com/bankrecon/backend/internal/domain/entity"
	"github.com/bankrecon/backend/internal/integration/persistence/model"
)

// accountingRepository implements the adapter.AccountingRecordsProvider interface.
type accountingRepository struct {
	db *gorm.DB
}

// NewAccountingRepository creates a new accounting records repository instance.
func NewAccountingRepository(db *gorm.DB) adapter.AccountingRecordsProvider {
	return &accountingRepository{
		db: db,
	}
}

// GetSnapshot returns the most recent expenses and paid invoices for a
// company, bounded by limit per record kind.
func (r *accountingRepository) GetSnapshot(ctx context.Context, companyID uuid.UUID, limit int) (*adapter.RecordsSnapshot, error) {
	var expenseModels []model.ExpenseModel
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&expenseModels)
	if result.Error != nil {
		return nil, result.Error
	}

	var invoiceModels []model.InvoiceModel
	result = r.db.WithContext(ctx).
		Where("company_id = ? AND paid_at IS NOT NULL", companyID).
		Order("paid_at DESC").
		Limit(limit).
		Find(&invoiceModels)
	if result.Error != nil {
		return nil, result.Error
	}

	snapshot := &adapter.RecordsSnapshot{
		Expenses: make([]*entity.Expense, len(expenseModels)),
		Invoices: make([]*entity.PaidInvoice, len(invoiceModels)),
	}
	for i, em := range expenseModels {
		snapshot.Expenses[i] = em.ToEntity()
	}
	for i, im := range invoiceModels {
		snapshot.Invoices[i] = im.ToEntity()
	}
	return snapshot, nil
}
