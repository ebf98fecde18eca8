// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchStatus represents the reconciliation status of a bank transaction.
type MatchStatus string

const (
	MatchStatusUnmatched   MatchStatus = "unmatched"
	MatchStatusSuggested   MatchStatus = "suggested"
	MatchStatusMatched     MatchStatus = "matched"
	MatchStatusDiscrepancy MatchStatus = "discrepancy"
	MatchStatusIgnored     MatchStatus = "ignored"
)

// MatchedType identifies which kind of accounting record a transaction is matched to.
type MatchedType string

const (
	MatchedTypeExpense MatchedType = "expense"
	MatchedTypeInvoice MatchedType = "invoice"
)

// MatchedRecord is a tagged reference to the accounting record a transaction
// is matched to. Exactly one record id is carried per value, which keeps the
// matched-expense / matched-invoice mutual exclusivity in the type itself.
type MatchedRecord struct {
	Type     MatchedType
	RecordID uuid.UUID
}

// ExpenseRef builds a MatchedRecord pointing at an expense.
func ExpenseRef(id uuid.UUID) MatchedRecord {
	return MatchedRecord{Type: MatchedTypeExpense, RecordID: id}
}

// InvoiceRef builds a MatchedRecord pointing at a paid invoice.
func InvoiceRef(id uuid.UUID) MatchedRecord {
	return MatchedRecord{Type: MatchedTypeInvoice, RecordID: id}
}

// BankTransaction represents one line item of a bank statement. Amount is
// signed: positive for deposits, negative for withdrawals. The core fields
// are immutable after parsing; only MatchStatus, Matched and Version change
// during reconciliation.
type BankTransaction struct {
	ID          uuid.UUID
	StatementID uuid.UUID
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	CheckNumber *string
	MatchStatus MatchStatus
	Matched     *MatchedRecord
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBankTransaction creates a new unmatched BankTransaction entity.
func NewBankTransaction(statementID uuid.UUID, date time.Time, description string, amount decimal.Decimal, checkNumber *string) *BankTransaction {
	now := time.Now().UTC()

	return &BankTransaction{
		ID:          uuid.New(),
		StatementID: statementID,
		Date:        date,
		Description: description,
		Amount:      amount,
		CheckNumber: checkNumber,
		MatchStatus: MatchStatusUnmatched,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsDeposit reports whether the transaction is a deposit. Zero-amount
// transactions are treated as deposits by convention.
func (t *BankTransaction) IsDeposit() bool {
	return !t.Amount.IsNegative()
}

// IsTerminal reports whether the transaction has reached a status that the
// matching engine never moves it out of within a review session.
func (t *BankTransaction) IsTerminal() bool {
	return t.MatchStatus == MatchStatusMatched || t.MatchStatus == MatchStatusIgnored
}
