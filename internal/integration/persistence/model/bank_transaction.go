// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankrecon/backend/internal/domain/entity"
)

// BankTransactionModel represents the bank_transactions table in the database.
// MatchedExpenseID and MatchedInvoiceID are never both set; Version guards
// concurrent match updates.
type BankTransactionModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StatementID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date             time.Time       `gorm:"type:date;not null;index"`
	Description      string          `gorm:"type:varchar(255);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CheckNumber      *string         `gorm:"type:varchar(32)"`
	MatchStatus      string          `gorm:"type:varchar(16);not null;index"`
	MatchedType      *string         `gorm:"type:varchar(10)"`
	MatchedExpenseID *uuid.UUID      `gorm:"type:uuid;index"`
	MatchedInvoiceID *uuid.UUID      `gorm:"type:uuid;index"`
	Version          int             `gorm:"not null;default:1"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`

	// Relationship (not loaded by default, use Preload)
	Statement *BankStatementModel `gorm:"foreignKey:StatementID;references:ID"`
}

// TableName returns the table name for the BankTransactionModel.
func (BankTransactionModel) TableName() string {
	return "bank_transactions"
}

// ToEntity converts a BankTransactionModel to a domain BankTransaction entity.
func (m *BankTransactionModel) ToEntity() *entity.BankTransaction {
	tx := &entity.BankTransaction{
		ID:          m.ID,
		StatementID: m.StatementID,
		Date:        m.Date,
		Description: m.Description,
		Amount:      m.Amount,
		CheckNumber: m.CheckNumber,
		MatchStatus: entity.MatchStatus(m.MatchStatus),
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}

	if m.MatchedType != nil {
		switch entity.MatchedType(*m.MatchedType) {
		case entity.MatchedTypeExpense:
			if m.MatchedExpenseID != nil {
				ref := entity.ExpenseRef(*m.MatchedExpenseID)
				tx.Matched = &ref
			}
		case entity.MatchedTypeInvoice:
			if m.MatchedInvoiceID != nil {
				ref := entity.InvoiceRef(*m.MatchedInvoiceID)
				tx.Matched = &ref
			}
		}
	}

	return tx
}

// BankTransactionFromEntity creates a BankTransactionModel from a domain BankTransaction entity.
func BankTransactionFromEntity(tx *entity.BankTransaction) *BankTransactionModel {
	model := &BankTransactionModel{
		ID:          tx.ID,
		StatementID: tx.StatementID,
		Date:        tx.Date,
		Description: tx.Description,
		Amount:      tx.Amount,
		CheckNumber: tx.CheckNumber,
		MatchStatus: string(tx.MatchStatus),
		Version:     tx.Version,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}

	if tx.Matched != nil {
		matchedType := string(tx.Matched.Type)
		model.MatchedType = &matchedType
		recordID := tx.Matched.RecordID
		switch tx.Matched.Type {
		case entity.MatchedTypeExpense:
			model.MatchedExpenseID = &recordID
		case entity.MatchedTypeInvoice:
			model.MatchedInvoiceID = &recordID
		}
	}

	return model
}
