// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/integration/entrypoint/dto"
)

// companyIDHeader carries the authenticated company identity. The API
// gateway in front of this service performs authentication and forwards
// the company id on every request.
const companyIDHeader = "X-Company-ID"

// companyIDFromRequest extracts the company id forwarded by the gateway.
// It writes the error response itself and returns false when the header is
// missing or malformed.
func companyIDFromRequest(ctx *gin.Context) (uuid.UUID, bool) {
	raw := ctx.GetHeader(companyIDHeader)
	if raw == "" {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Missing company identity",
		})
		return uuid.Nil, false
	}

	companyID, err := uuid.Parse(raw)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Invalid company identity",
			Details: err.Error(),
		})
		return uuid.Nil, false
	}

	return companyID, true
}

// pathUUID parses a UUID path parameter, writing a 400 response on failure.
func pathUUID(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid " + name,
			Details: err.Error(),
		})
		return uuid.Nil, false
	}
	return id, true
}
