// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense represents a recorded business expense. Expenses are supplied by
// the accounting store and are read-only for the reconciliation engine.
type Expense struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	Description string
	Amount      decimal.Decimal // Negative for money out
	Date        time.Time
	Category    string
	Vendor      string
}

// PaidInvoice represents an invoice that has been paid by a client. Only
// invoices with a non-nil PaidAt are eligible match candidates.
type PaidInvoice struct {
	ID            uuid.UUID
	CompanyID     uuid.UUID
	InvoiceNumber string
	Total         decimal.Decimal
	PaidAt        *time.Time
	ClientName    string
}

// IsEligible reports whether the invoice can be offered as a match candidate.
func (i *PaidInvoice) IsEligible() bool {
	return i.PaidAt != nil
}
