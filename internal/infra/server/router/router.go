// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/bankrecon/backend/internal/integration/entrypoint/controller"
	"github.com/bankrecon/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	statementController      *controller.StatementController
	reconciliationController *controller.ReconciliationController
	uploadRateLimiter        *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	statementController *controller.StatementController,
	reconciliationController *controller.ReconciliationController,
	uploadRateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:         healthController,
		statementController:      statementController,
		reconciliationController: reconciliationController,
		uploadRateLimiter:        uploadRateLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		statements := v1.Group("/statements")
		{
			// Upload triggers an external AI parsing call, so it is rate limited.
			if r.uploadRateLimiter != nil {
				statements.POST("", r.uploadRateLimiter.Middleware(), r.statementController.Upload)
			} else {
				statements.POST("", r.statementController.Upload)
			}

			statements.POST("/:id/reconcile", r.reconciliationController.Start)
			statements.GET("/:id/review", r.reconciliationController.GetReview)
			statements.POST("/:id/complete", r.reconciliationController.Complete)
			statements.POST("/:id/reset", r.reconciliationController.Reset)

			transactions := statements.Group("/:id/transactions")
			{
				transactions.POST("/:txid/confirm", r.reconciliationController.ConfirmMatch)
				transactions.POST("/:txid/ignore", r.reconciliationController.Ignore)
				transactions.POST("/:txid/discrepancy", r.reconciliationController.FlagDiscrepancy)
			}
		}
	}
}
