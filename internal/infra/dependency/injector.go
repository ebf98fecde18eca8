// Package dependency provides dependency injection for the application.
package dependency

import (
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bankrecon/backend/config"
	"github.com/bankrecon/backend/internal/application/adapter"
	"github.com/bankrecon/backend/internal/application/usecase/reconciliation"
	"github.com/bankrecon/backend/internal/application/usecase/statement"
	"github.com/bankrecon/backend/internal/domain/valueobject"
	"github.com/bankrecon/backend/internal/infra/server/router"
	"github.com/bankrecon/backend/internal/integration/adapters"
	"github.com/bankrecon/backend/internal/integration/entrypoint/controller"
	"github.com/bankrecon/backend/internal/integration/entrypoint/middleware"
	"github.com/bankrecon/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// The redis client is optional; without it the accounting records snapshot
// is loaded straight from the database on every session start.
func NewInjector(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Injector {
	// Create repositories
	reconciliationRepo := persistence.NewReconciliationRepository(db)

	var records adapter.AccountingRecordsProvider = persistence.NewAccountingRepository(db)
	if rdb != nil {
		records = adapters.NewCachedRecordsProvider(records, rdb, cfg.Reconciliation.RecordsCacheTTL)
	}

	// Create adapters/services
	parser := adapters.NewGeminiStatementParser(cfg.Gemini.APIKey, cfg.Gemini.Model)

	// Session configuration
	sessionConfig := sessionConfigFrom(cfg)
	registry := reconciliation.NewSessionRegistry()

	// Create use cases
	uploadStatementUseCase := statement.NewUploadStatementUseCase(reconciliationRepo, parser)
	startSessionUseCase := reconciliation.NewStartSessionUseCase(reconciliationRepo, records, registry, sessionConfig)
	getReviewUseCase := reconciliation.NewGetReviewUseCase(registry)
	confirmMatchUseCase := reconciliation.NewConfirmMatchUseCase(registry)
	ignoreTransactionUseCase := reconciliation.NewIgnoreTransactionUseCase(registry)
	flagDiscrepancyUseCase := reconciliation.NewFlagDiscrepancyUseCase(registry)
	completeSessionUseCase := reconciliation.NewCompleteSessionUseCase(registry)
	resetSessionUseCase := reconciliation.NewResetSessionUseCase(registry)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})
	statementController := controller.NewStatementController(uploadStatementUseCase)
	reconciliationController := controller.NewReconciliationController(
		startSessionUseCase,
		getReviewUseCase,
		confirmMatchUseCase,
		ignoreTransactionUseCase,
		flagDiscrepancyUseCase,
		completeSessionUseCase,
		resetSessionUseCase,
	)

	uploadRateLimiter := middleware.NewRateLimiterWithConfig(
		cfg.Reconciliation.UploadRateLimit,
		cfg.Reconciliation.UploadRateWindow,
	)

	appRouter := router.NewRouter(
		healthController,
		statementController,
		reconciliationController,
		uploadRateLimiter,
	)

	return &Injector{
		Config: cfg,
		DB:     db,
		Router: appRouter,
	}
}

// sessionConfigFrom builds the matching engine configuration from the
// application config, falling back to defaults for unparseable values.
func sessionConfigFrom(cfg *config.Config) reconciliation.SessionConfig {
	sessionConfig := reconciliation.DefaultSessionConfig()
	sessionConfig.Matching = valueobject.DefaultMatchingConfig()

	if cfg.Reconciliation.Workers > 0 {
		sessionConfig.Workers = cfg.Reconciliation.Workers
	}
	if cfg.Reconciliation.SnapshotLimit > 0 {
		sessionConfig.SnapshotLimit = cfg.Reconciliation.SnapshotLimit
	}
	if cfg.Reconciliation.WriteRetries >= 0 {
		sessionConfig.WriteRetries = cfg.Reconciliation.WriteRetries
	}
	if cfg.Reconciliation.RetryBackoff > 0 {
		sessionConfig.RetryBackoff = cfg.Reconciliation.RetryBackoff
	}
	if tolerance, err := decimal.NewFromString(cfg.Reconciliation.VarianceTolerance); err == nil && !tolerance.IsNegative() {
		sessionConfig.VarianceTolerance = tolerance
	}

	return sessionConfig
}
