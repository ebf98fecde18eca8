// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatementStatus represents the lifecycle status of a bank statement.
type StatementStatus string

const (
	StatementStatusPending    StatementStatus = "pending"
	StatementStatusParsed     StatementStatus = "parsed"
	StatementStatusReconciled StatementStatus = "reconciled"
	StatementStatusError      StatementStatus = "error"
)

// BankStatement represents one uploaded bank statement covering a date range.
type BankStatement struct {
	ID               uuid.UUID
	CompanyID        uuid.UUID
	FileName         string
	AccountName      string
	AccountNumber    string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	BeginningBalance decimal.Decimal
	EndingBalance    decimal.Decimal
	Status           StatementStatus
	ParseWarnings    []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewBankStatement creates a new BankStatement entity in the pending state.
func NewBankStatement(companyID uuid.UUID, fileName string) *BankStatement {
	now := time.Now().UTC()

	return &BankStatement{
		ID:        uuid.New(),
		CompanyID: companyID,
		FileName:  fileName,
		Status:    StatementStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyParseResult fills the account and balance fields produced by the
// statement parser and advances the statement to the parsed state.
func (s *BankStatement) ApplyParseResult(accountName, accountNumber string, periodStart, periodEnd time.Time, beginning, ending decimal.Decimal, warnings []string) {
	s.AccountName = accountName
	s.AccountNumber = accountNumber
	s.PeriodStart = periodStart
	s.PeriodEnd = periodEnd
	s.BeginningBalance = beginning
	s.EndingBalance = ending
	s.ParseWarnings = warnings
	s.Status = StatementStatusParsed
	s.UpdatedAt = time.Now().UTC()
}
