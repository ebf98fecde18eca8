// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bankrecon/backend/internal/application/adapter"
	"github.com/bankrecon/backend/internal/domain/entity"
	domainerror "github.com/bankrecon/backend/internal/domain/error"
	"github.com/bankrecon/backend/internal/integration/persistence/model"
)

// reconciliationRepository implements the adapter.ReconciliationRepository interface.
type reconciliationRepository struct {
	db *gorm.DB
}

// NewReconciliationRepository creates a new reconciliation repository instance.
func NewReconciliationRepository(db *gorm.DB) adapter.ReconciliationRepository {
	return &reconciliationRepository{
		db: db,
	}
}

// CreateStatement persists a new bank statement.
func (r *reconciliationRepository) CreateStatement(ctx context.Context, statement *entity.BankStatement) error {
	statementModel := model.BankStatementFromEntity(statement)
	result := r.db.WithContext(ctx).Create(statementModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// GetStatement retrieves a statement by ID with company ownership verification.
func (r *reconciliationRepository) GetStatement(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (*entity.BankStatement, error) {
	var statementModel model.BankStatementModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&statementModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrStatementNotFound
		}
		return nil, result.Error
	}
	if statementModel.CompanyID != companyID {
		return nil, domainerror.ErrStatementNotOwned
	}
	return statementModel.ToEntity(), nil
}

// UpdateStatement persists parser results and status transitions on a statement.
func (r *reconciliationRepository) UpdateStatement(ctx context.Context, statement *entity.BankStatement) error {
	statementModel := model.BankStatementFromEntity(statement)
	statementModel.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&model.BankStatementModel{}).
		Where("id = ?", statement.ID).
		Select("AccountName", "AccountNumber", "PeriodStart", "PeriodEnd",
			"BeginningBalance", "EndingBalance", "Status", "ParseWarnings", "UpdatedAt").
		Updates(statementModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrStatementNotFound
	}
	return nil
}

// CreateTransactions persists the transaction lines produced by the parser.
func (r *reconciliationRepository) CreateTransactions(ctx context.Context, transactions []*entity.BankTransaction) error {
	models := make([]*model.BankTransactionModel, len(transactions))
	for i, tx := range transactions {
		models[i] = model.BankTransactionFromEntity(tx)
	}
	result := r.db.WithContext(ctx).Create(models)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// ListTransactions retrieves all transactions of a statement in statement order.
func (r *reconciliationRepository) ListTransactions(ctx context.Context, statementID uuid.UUID) ([]*entity.BankTransaction, error) {
	var transactionModels []model.BankTransactionModel
	result := r.db.WithContext(ctx).
		Where("statement_id = ?", statementID).
		Order("date ASC, created_at ASC").
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.BankTransaction, len(transactionModels))
	for i, tm := range transactionModels {
		transactions[i] = tm.ToEntity()
	}
	return transactions, nil
}

// UpdateTransactionMatch writes the match status and matched record of one
// transaction. The version predicate in the WHERE clause makes the write an
// optimistic-lock compare-and-swap; zero rows affected means another
// session got there first.
func (r *reconciliationRepository) UpdateTransactionMatch(ctx context.Context, update adapter.MatchUpdate) error {
	fields := map[string]interface{}{
		"match_status":       string(update.Status),
		"matched_type":       nil,
		"matched_expense_id": nil,
		"matched_invoice_id": nil,
		"version":            update.ExpectedVersion + 1,
		"updated_at":         time.Now().UTC(),
	}
	if update.Matched != nil {
		fields["matched_type"] = string(update.Matched.Type)
		switch update.Matched.Type {
		case entity.MatchedTypeExpense:
			fields["matched_expense_id"] = update.Matched.RecordID
		case entity.MatchedTypeInvoice:
			fields["matched_invoice_id"] = update.Matched.RecordID
		}
	}

	result := r.db.WithContext(ctx).
		Model(&model.BankTransactionModel{}).
		Where("id = ? AND version = ?", update.TransactionID, update.ExpectedVersion).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrMatchConflict
	}
	return nil
}
