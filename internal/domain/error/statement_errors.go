// Package error defines domain-specific errors for the reconciliation service.
package error

import "errors"

// Statement domain errors.
var (
	// ErrStatementNotFound is returned when a bank statement is not found.
	ErrStatementNotFound = errors.New("bank statement not found")

	// ErrStatementNotParsed is returned when reconciliation is started on a statement that has not been parsed.
	ErrStatementNotParsed = errors.New("bank statement has not been parsed")

	// ErrStatementParseFailed is returned when the external parser rejects a statement.
	ErrStatementParseFailed = errors.New("statement parsing failed")

	// ErrEmptyStatementFile is returned when an uploaded statement file is empty.
	ErrEmptyStatementFile = errors.New("statement file is empty")

	// ErrStatementNotOwned is returned when the statement does not belong to the company.
	ErrStatementNotOwned = errors.New("statement does not belong to company")
)

// StatementErrorCode defines error codes for statement errors.
// Format: STM-XXYYYY where XX is category and YYYY is specific error.
type StatementErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeStatementNotFound  StatementErrorCode = "STM-010001"
	ErrCodeStatementNotParsed StatementErrorCode = "STM-010002"
	ErrCodeEmptyStatementFile StatementErrorCode = "STM-010003"
	ErrCodeStatementNotOwned  StatementErrorCode = "STM-010004"

	// External service errors (02XXXX)
	ErrCodeStatementParseFailed StatementErrorCode = "STM-020001"

	// Rate limiting errors (03XXXX)
	ErrCodeUploadRateLimited StatementErrorCode = "STM-030001"
)

// StatementError represents a statement error with code and message.
type StatementError struct {
	Code    StatementErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *StatementError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *StatementError) Unwrap() error {
	return e.Err
}

// NewStatementError creates a new StatementError with the given code and message.
func NewStatementError(code StatementErrorCode, message string, err error) *StatementError {
	return &StatementError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
