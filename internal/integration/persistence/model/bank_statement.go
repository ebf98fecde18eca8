// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/bankrecon/backend/internal/domain/entity"
)

// BankStatementModel represents the bank_statements table in the database.
type BankStatementModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	FileName         string          `gorm:"type:varchar(255);not null"`
	AccountName      string          `gorm:"type:varchar(255)"`
	AccountNumber    string          `gorm:"type:varchar(64)"`
	PeriodStart      *time.Time      `gorm:"type:date"`
	PeriodEnd        *time.Time      `gorm:"type:date"`
	BeginningBalance decimal.Decimal `gorm:"type:decimal(15,2)"`
	EndingBalance    decimal.Decimal `gorm:"type:decimal(15,2)"`
	Status           string          `gorm:"type:varchar(16);not null;index"`
	ParseWarnings    pq.StringArray  `gorm:"type:text[]"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for the BankStatementModel.
func (BankStatementModel) TableName() string {
	return "bank_statements"
}

// ToEntity converts a BankStatementModel to a domain BankStatement entity.
func (m *BankStatementModel) ToEntity() *entity.BankStatement {
	stmt := &entity.BankStatement{
		ID:               m.ID,
		CompanyID:        m.CompanyID,
		FileName:         m.FileName,
		AccountName:      m.AccountName,
		AccountNumber:    m.AccountNumber,
		BeginningBalance: m.BeginningBalance,
		EndingBalance:    m.EndingBalance,
		Status:           entity.StatementStatus(m.Status),
		ParseWarnings:    []string(m.ParseWarnings),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.PeriodStart != nil {
		stmt.PeriodStart = *m.PeriodStart
	}
	if m.PeriodEnd != nil {
		stmt.PeriodEnd = *m.PeriodEnd
	}
	return stmt
}

// BankStatementFromEntity creates a BankStatementModel from a domain BankStatement entity.
func BankStatementFromEntity(stmt *entity.BankStatement) *BankStatementModel {
	model := &BankStatementModel{
		ID:               stmt.ID,
		CompanyID:        stmt.CompanyID,
		FileName:         stmt.FileName,
		AccountName:      stmt.AccountName,
		AccountNumber:    stmt.AccountNumber,
		BeginningBalance: stmt.BeginningBalance,
		EndingBalance:    stmt.EndingBalance,
		Status:           string(stmt.Status),
		ParseWarnings:    pq.StringArray(stmt.ParseWarnings),
		CreatedAt:        stmt.CreatedAt,
		UpdatedAt:        stmt.UpdatedAt,
	}
	if !stmt.PeriodStart.IsZero() {
		start := stmt.PeriodStart
		model.PeriodStart = &start
	}
	if !stmt.PeriodEnd.IsZero() {
		end := stmt.PeriodEnd
		model.PeriodEnd = &end
	}
	return model
}
