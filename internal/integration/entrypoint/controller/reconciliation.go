// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/application/usecase/reconciliation"
	"github.com/bankrecon/backend/internal/domain/entity"
	domainerror "github.com/bankrecon/backend/internal/domain/error"
	"github.com/bankrecon/backend/internal/domain/valueobject"
	"github.com/bankrecon/backend/internal/integration/entrypoint/dto"
)

// ReconciliationController handles reconciliation session endpoints.
type ReconciliationController struct {
	startSessionUseCase      *reconciliation.StartSessionUseCase
	getReviewUseCase         *reconciliation.GetReviewUseCase
	confirmMatchUseCase      *reconciliation.ConfirmMatchUseCase
	ignoreTransactionUseCase *reconciliation.IgnoreTransactionUseCase
	flagDiscrepancyUseCase   *reconciliation.FlagDiscrepancyUseCase
	completeSessionUseCase   *reconciliation.CompleteSessionUseCase
	resetSessionUseCase      *reconciliation.ResetSessionUseCase
}

// NewReconciliationController creates a new reconciliation controller instance.
func NewReconciliationController(
	startSessionUseCase *reconciliation.StartSessionUseCase,
	getReviewUseCase *reconciliation.GetReviewUseCase,
	confirmMatchUseCase *reconciliation.ConfirmMatchUseCase,
	ignoreTransactionUseCase *reconciliation.IgnoreTransactionUseCase,
	flagDiscrepancyUseCase *reconciliation.FlagDiscrepancyUseCase,
	completeSessionUseCase *reconciliation.CompleteSessionUseCase,
	resetSessionUseCase *reconciliation.ResetSessionUseCase,
) *ReconciliationController {
	return &ReconciliationController{
		startSessionUseCase:      startSessionUseCase,
		getReviewUseCase:         getReviewUseCase,
		confirmMatchUseCase:      confirmMatchUseCase,
		ignoreTransactionUseCase: ignoreTransactionUseCase,
		flagDiscrepancyUseCase:   flagDiscrepancyUseCase,
		completeSessionUseCase:   completeSessionUseCase,
		resetSessionUseCase:      resetSessionUseCase,
	}
}

// Start handles POST /statements/:id/reconcile requests.
// It snapshots the accounting records, runs the auto-match pass and moves
// the statement into review.
func (c *ReconciliationController) Start(ctx *gin.Context) {
	companyID, ok := companyIDFromRequest(ctx)
	if !ok {
		return
	}
	statementID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	input := reconciliation.StartSessionInput{
		CompanyID:   companyID,
		StatementID: statementID,
	}

	state, err := c.startSessionUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		slog.Error("start reconciliation failed", "statement_id", statementID, "error", err)
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReviewStateResponseDTO(state))
}

// GetReview handles GET /statements/:id/review requests.
func (c *ReconciliationController) GetReview(ctx *gin.Context) {
	if _, ok := companyIDFromRequest(ctx); !ok {
		return
	}
	statementID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	state, err := c.getReviewUseCase.Execute(ctx.Request.Context(), reconciliation.GetReviewInput{
		StatementID: statementID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReviewStateResponseDTO(state))
}

// ConfirmMatch handles POST /statements/:id/transactions/:txid/confirm requests.
func (c *ReconciliationController) ConfirmMatch(ctx *gin.Context) {
	if _, ok := companyIDFromRequest(ctx); !ok {
		return
	}
	statementID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	transactionID, ok := pathUUID(ctx, "txid")
	if !ok {
		return
	}

	var req dto.ConfirmMatchRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	recordID, err := uuid.Parse(req.RecordID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid record_id",
			Details: err.Error(),
		})
		return
	}

	input := reconciliation.ConfirmMatchInput{
		StatementID:   statementID,
		TransactionID: transactionID,
		Candidate: valueobject.MatchCandidate{
			Type:     entity.MatchedType(req.Type),
			RecordID: recordID,
		},
	}

	state, err := c.confirmMatchUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		slog.Error("confirm match failed", "transaction_id", transactionID, "error", err)
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReviewStateResponseDTO(state))
}

// Ignore handles POST /statements/:id/transactions/:txid/ignore requests.
func (c *ReconciliationController) Ignore(ctx *gin.Context) {
	if _, ok := companyIDFromRequest(ctx); !ok {
		return
	}
	statementID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	transactionID, ok := pathUUID(ctx, "txid")
	if !ok {
		return
	}

	state, err := c.ignoreTransactionUseCase.Execute(ctx.Request.Context(), reconciliation.IgnoreTransactionInput{
		StatementID:   statementID,
		TransactionID: transactionID,
	})
	if err != nil {
		slog.Error("ignore transaction failed", "transaction_id", transactionID, "error", err)
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReviewStateResponseDTO(state))
}

// FlagDiscrepancy handles POST /statements/:id/transactions/:txid/discrepancy requests.
func (c *ReconciliationController) FlagDiscrepancy(ctx *gin.Context) {
	if _, ok := companyIDFromRequest(ctx); !ok {
		return
	}
	statementID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	transactionID, ok := pathUUID(ctx, "txid")
	if !ok {
		return
	}

	state, err := c.flagDiscrepancyUseCase.Execute(ctx.Request.Context(), reconciliation.FlagDiscrepancyInput{
		StatementID:   statementID,
		TransactionID: transactionID,
	})
	if err != nil {
		slog.Error("flag discrepancy failed", "transaction_id", transactionID, "error", err)
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReviewStateResponseDTO(state))
}

// Complete handles POST /statements/:id/complete requests.
func (c *ReconciliationController) Complete(ctx *gin.Context) {
	if _, ok := companyIDFromRequest(ctx); !ok {
		return
	}
	statementID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	// Body is optional; an empty body means no force.
	var req dto.CompleteSessionRequestDTO
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Invalid request body",
				Details: err.Error(),
			})
			return
		}
	}

	state, err := c.completeSessionUseCase.Execute(ctx.Request.Context(), reconciliation.CompleteSessionInput{
		StatementID: statementID,
		Force:       req.Force,
	})
	if err != nil {
		slog.Error("complete session failed", "statement_id", statementID, "error", err)
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReviewStateResponseDTO(state))
}

// Reset handles POST /statements/:id/reset requests.
// It discards the in-memory session so a fresh reconcile can be started.
func (c *ReconciliationController) Reset(ctx *gin.Context) {
	if _, ok := companyIDFromRequest(ctx); !ok {
		return
	}
	statementID, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	if err := c.resetSessionUseCase.Execute(ctx.Request.Context(), reconciliation.ResetSessionInput{
		StatementID: statementID,
	}); err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Reconciliation session discarded"})
}

// handleReconciliationError maps domain errors to HTTP responses.
func (c *ReconciliationController) handleReconciliationError(ctx *gin.Context, err error) {
	var recErr *domainerror.ReconciliationError
	if errors.As(err, &recErr) {
		ctx.JSON(c.getStatusCodeForReconciliationError(recErr.Code), dto.ErrorResponse{
			Error: recErr.Message,
			Code:  string(recErr.Code),
		})
		return
	}

	var stmtErr *domainerror.StatementError
	if errors.As(err, &stmtErr) {
		statusCode := http.StatusInternalServerError
		switch stmtErr.Code {
		case domainerror.ErrCodeStatementNotFound:
			statusCode = http.StatusNotFound
		case domainerror.ErrCodeStatementNotOwned:
			statusCode = http.StatusForbidden
		case domainerror.ErrCodeStatementNotParsed:
			statusCode = http.StatusBadRequest
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: stmtErr.Message,
			Code:  string(stmtErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForReconciliationError maps error codes to HTTP status codes.
func (c *ReconciliationController) getStatusCodeForReconciliationError(code domainerror.ReconciliationErrorCode) int {
	switch code {
	case domainerror.ErrCodeSessionNotFound,
		domainerror.ErrCodeTransactionNotInSession:
		return http.StatusNotFound
	case domainerror.ErrCodeCandidateTypeMismatch,
		domainerror.ErrCodeSessionNotInReview:
		return http.StatusBadRequest
	case domainerror.ErrCodeMatchConflict:
		return http.StatusConflict
	case domainerror.ErrCodeVarianceExceedsTolerance:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
