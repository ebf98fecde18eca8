// Package statement contains bank statement upload and parsing use cases.
package statement

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/application/adapter"
	"github.com/bankrecon/backend/internal/domain/entity"
	domainerror "github.com/bankrecon/backend/internal/domain/error"
)

// UploadStatementInput represents the input for uploading a bank statement.
type UploadStatementInput struct {
	CompanyID uuid.UUID
	FileName  string
	FileBytes []byte
}

// UploadStatementOutput represents the result of uploading and parsing a statement.
type UploadStatementOutput struct {
	Statement    *entity.BankStatement
	Transactions []*entity.BankTransaction
}

// UploadStatementUseCase handles creating a statement and running the
// external parser over the uploaded file.
type UploadStatementUseCase struct {
	repo   adapter.ReconciliationRepository
	parser adapter.StatementParser
}

// NewUploadStatementUseCase creates a new UploadStatementUseCase instance.
func NewUploadStatementUseCase(repo adapter.ReconciliationRepository, parser adapter.StatementParser) *UploadStatementUseCase {
	return &UploadStatementUseCase{
		repo:   repo,
		parser: parser,
	}
}

// Execute creates the statement record, parses the file and persists the
// extracted transactions. A parser failure leaves the statement in the
// error status and is surfaced to the caller; no partial transaction set is
// persisted in that case.
func (uc *UploadStatementUseCase) Execute(ctx context.Context, input UploadStatementInput) (*UploadStatementOutput, error) {
	if len(input.FileBytes) == 0 {
		return nil, domainerror.NewStatementError(
			domainerror.ErrCodeEmptyStatementFile,
			"statement file is empty",
			domainerror.ErrEmptyStatementFile,
		)
	}

	stmt := entity.NewBankStatement(input.CompanyID, input.FileName)
	if err := uc.repo.CreateStatement(ctx, stmt); err != nil {
		return nil, err
	}

	parsed, err := uc.parser.Parse(ctx, input.CompanyID, input.FileBytes, stmt.ID)
	if err != nil {
		stmt.Status = entity.StatementStatusError
		if updateErr := uc.repo.UpdateStatement(ctx, stmt); updateErr != nil {
			slog.Error("Failed to mark statement as errored",
				"statement_id", stmt.ID,
				"error", updateErr,
			)
		}
		return nil, domainerror.NewStatementError(
			domainerror.ErrCodeStatementParseFailed,
			"statement parsing failed",
			err,
		)
	}

	stmt.ApplyParseResult(
		parsed.AccountName,
		parsed.AccountNumber,
		parsed.PeriodStart,
		parsed.PeriodEnd,
		parsed.BeginningBalance,
		parsed.EndingBalance,
		parsed.Warnings,
	)

	transactions := make([]*entity.BankTransaction, len(parsed.Transactions))
	for i, line := range parsed.Transactions {
		transactions[i] = entity.NewBankTransaction(stmt.ID, line.Date, line.Description, line.Amount, line.CheckNumber)
	}
	if len(transactions) > 0 {
		if err := uc.repo.CreateTransactions(ctx, transactions); err != nil {
			return nil, err
		}
	}

	if err := uc.repo.UpdateStatement(ctx, stmt); err != nil {
		return nil, err
	}

	slog.Info("Statement parsed",
		"statement_id", stmt.ID,
		"company_id", input.CompanyID,
		"transactions", len(transactions),
		"warnings", len(parsed.Warnings),
	)

	return &UploadStatementOutput{
		Statement:    stmt,
		Transactions: transactions,
	}, nil
}
