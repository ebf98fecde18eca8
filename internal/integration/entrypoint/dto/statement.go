// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/bankrecon/backend/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// StatementResponseDTO represents a bank statement in API responses.
type StatementResponseDTO struct {
	ID               string    `json:"id"`
	FileName         string    `json:"file_name"`
	AccountName      string    `json:"account_name,omitempty"`
	AccountNumber    string    `json:"account_number,omitempty"`
	PeriodStart      string    `json:"period_start,omitempty"`
	PeriodEnd        string    `json:"period_end,omitempty"`
	BeginningBalance string    `json:"beginning_balance"`
	EndingBalance    string    `json:"ending_balance"`
	Status           string    `json:"status"`
	ParseWarnings    []string  `json:"parse_warnings,omitempty"`
	TransactionCount int       `json:"transaction_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// BankTransactionDTO represents one statement line item in API responses.
type BankTransactionDTO struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	CheckNumber string `json:"check_number,omitempty"`
	MatchStatus string `json:"match_status"`
	MatchedType string `json:"matched_type,omitempty"`
	MatchedID   string `json:"matched_id,omitempty"`
}

// UploadStatementResponseDTO represents the response for POST /statements.
type UploadStatementResponseDTO struct {
	Statement    StatementResponseDTO `json:"statement"`
	Transactions []BankTransactionDTO `json:"transactions"`
}

// ToStatementResponseDTO converts a BankStatement entity to its DTO.
func ToStatementResponseDTO(statement *entity.BankStatement, transactionCount int) StatementResponseDTO {
	resp := StatementResponseDTO{
		ID:               statement.ID.String(),
		FileName:         statement.FileName,
		AccountName:      statement.AccountName,
		AccountNumber:    statement.AccountNumber,
		BeginningBalance: statement.BeginningBalance.StringFixed(2),
		EndingBalance:    statement.EndingBalance.StringFixed(2),
		Status:           string(statement.Status),
		ParseWarnings:    statement.ParseWarnings,
		TransactionCount: transactionCount,
		CreatedAt:        statement.CreatedAt,
	}
	if !statement.PeriodStart.IsZero() {
		resp.PeriodStart = statement.PeriodStart.Format(dateLayout)
	}
	if !statement.PeriodEnd.IsZero() {
		resp.PeriodEnd = statement.PeriodEnd.Format(dateLayout)
	}
	return resp
}

// ToBankTransactionDTO converts a BankTransaction entity to its DTO.
func ToBankTransactionDTO(tx *entity.BankTransaction) BankTransactionDTO {
	d := BankTransactionDTO{
		ID:          tx.ID.String(),
		Date:        tx.Date.Format(dateLayout),
		Description: tx.Description,
		Amount:      tx.Amount.StringFixed(2),
		MatchStatus: string(tx.MatchStatus),
	}
	if tx.CheckNumber != nil {
		d.CheckNumber = *tx.CheckNumber
	}
	if tx.Matched != nil {
		d.MatchedType = string(tx.Matched.Type)
		d.MatchedID = tx.Matched.RecordID.String()
	}
	return d
}

// ToBankTransactionDTOs converts a slice of BankTransaction entities.
func ToBankTransactionDTOs(txs []*entity.BankTransaction) []BankTransactionDTO {
	dtos := make([]BankTransactionDTO, 0, len(txs))
	for _, tx := range txs {
		dtos = append(dtos, ToBankTransactionDTO(tx))
	}
	return dtos
}
