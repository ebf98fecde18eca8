// Package error defines domain-specific errors for the reconciliation service.
package error

import "errors"

// Reconciliation domain errors.
var (
	// ErrSessionNotFound is returned when no reconciliation session exists for a statement.
	ErrSessionNotFound = errors.New("reconciliation session not found")

	// ErrSessionNotInReview is returned when a review action is attempted outside the review stage.
	ErrSessionNotInReview = errors.New("session is not in review")

	// ErrTransactionNotInSession is returned when a transaction does not belong to the session's statement.
	ErrTransactionNotInSession = errors.New("transaction not part of session")

	// ErrCandidateTypeMismatch is returned when a confirmed candidate's direction contradicts the transaction.
	ErrCandidateTypeMismatch = errors.New("candidate type does not fit transaction")

	// ErrMatchConflict is returned when a transaction was updated concurrently by another session.
	ErrMatchConflict = errors.New("transaction was modified by another session")

	// ErrVarianceExceedsTolerance is returned when completing an unreconciled statement without force.
	ErrVarianceExceedsTolerance = errors.New("variance exceeds tolerance, use force to override")
)

// ReconciliationErrorCode defines error codes for reconciliation errors.
// Format: RCN-XXYYYY where XX is category and YYYY is specific error.
type ReconciliationErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeSessionNotFound          ReconciliationErrorCode = "RCN-010001"
	ErrCodeSessionNotInReview       ReconciliationErrorCode = "RCN-010002"
	ErrCodeTransactionNotInSession  ReconciliationErrorCode = "RCN-010003"
	ErrCodeCandidateTypeMismatch    ReconciliationErrorCode = "RCN-010004"
	ErrCodeVarianceExceedsTolerance ReconciliationErrorCode = "RCN-010005"

	// Concurrency errors (02XXXX)
	ErrCodeMatchConflict ReconciliationErrorCode = "RCN-020001"
)

// ReconciliationError represents a reconciliation error with code and message.
type ReconciliationError struct {
	Code    ReconciliationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReconciliationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// NewReconciliationError creates a new ReconciliationError with the given code and message.
func NewReconciliationError(code ReconciliationErrorCode, message string, err error) *ReconciliationError {
	return &ReconciliationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
