// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bankrecon/backend/internal/application/usecase/statement"
	domainerror "github.com/bankrecon/backend/internal/domain/error"
	"github.com/bankrecon/backend/internal/integration/entrypoint/dto"
)

// maxStatementFileSize limits uploaded statement files to 10 MB.
const maxStatementFileSize = 10 << 20

// StatementController handles bank statement endpoints.
type StatementController struct {
	uploadStatementUseCase *statement.UploadStatementUseCase
}

// NewStatementController creates a new statement controller instance.
func NewStatementController(uploadStatementUseCase *statement.UploadStatementUseCase) *StatementController {
	return &StatementController{
		uploadStatementUseCase: uploadStatementUseCase,
	}
}

// Upload handles POST /statements requests.
// It accepts a multipart form with a "file" field containing the statement PDF.
func (c *StatementController) Upload(ctx *gin.Context) {
	companyID, ok := companyIDFromRequest(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Missing statement file",
			Details: err.Error(),
		})
		return
	}
	if fileHeader.Size > maxStatementFileSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
			Error: "Statement file exceeds the 10MB limit",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Failed to read statement file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Failed to read statement file",
			Details: err.Error(),
		})
		return
	}

	input := statement.UploadStatementInput{
		CompanyID: companyID,
		FileName:  fileHeader.Filename,
		FileBytes: fileBytes,
	}

	output, err := c.uploadStatementUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		slog.Error("statement upload failed", "error", err)
		c.handleStatementError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.UploadStatementResponseDTO{
		Statement:    dto.ToStatementResponseDTO(output.Statement, len(output.Transactions)),
		Transactions: dto.ToBankTransactionDTOs(output.Transactions),
	})
}

// handleStatementError maps statement errors to HTTP responses.
func (c *StatementController) handleStatementError(ctx *gin.Context, err error) {
	var stmtErr *domainerror.StatementError
	if errors.As(err, &stmtErr) {
		ctx.JSON(c.getStatusCodeForStatementError(stmtErr.Code), dto.ErrorResponse{
			Error: stmtErr.Message,
			Code:  string(stmtErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForStatementError maps error codes to HTTP status codes.
func (c *StatementController) getStatusCodeForStatementError(code domainerror.StatementErrorCode) int {
	switch code {
	case domainerror.ErrCodeStatementNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeStatementNotOwned:
		return http.StatusForbidden
	case domainerror.ErrCodeEmptyStatementFile,
		domainerror.ErrCodeStatementNotParsed:
		return http.StatusBadRequest
	case domainerror.ErrCodeStatementParseFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
