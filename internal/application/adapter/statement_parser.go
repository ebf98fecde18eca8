// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParsedTransaction is one statement line produced by the parser.
type ParsedTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // Positive deposit, negative withdrawal
	CheckNumber *string
}

// ParsedStatement is the structured result of parsing a raw statement file.
type ParsedStatement struct {
	AccountName      string
	AccountNumber    string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	BeginningBalance decimal.Decimal
	EndingBalance    decimal.Decimal
	Warnings         []string
	Transactions     []ParsedTransaction
}

// StatementParser extracts structured transactions from a raw bank
// statement file. The call is treated as opaque, possibly slow and
// possibly failing remote work.
type StatementParser interface {
	Parse(ctx context.Context, companyID uuid.UUID, fileBytes []byte, statementID uuid.UUID) (*ParsedStatement, error)
}
