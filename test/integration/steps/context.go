// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bankrecon/backend/internal/application/usecase/reconciliation"
	"github.com/bankrecon/backend/internal/application/usecase/statement"
	"github.com/bankrecon/backend/internal/integration/adapters"
	"github.com/bankrecon/backend/internal/integration/entrypoint/controller"
	"github.com/bankrecon/backend/internal/integration/entrypoint/middleware"
	"github.com/bankrecon/backend/internal/integration/persistence"
	"github.com/bankrecon/backend/internal/integration/persistence/model"
	"github.com/bankrecon/backend/internal/infra/server/router"
	"github.com/bankrecon/backend/test/integration/mock"
)

// testContext holds the state of one scenario.
type testContext struct {
	uri    string
	client *http.Client

	db     *mock.Db
	parser *mock.StatementParser

	headers   map[string]string
	companyID uuid.UUID
	response  *response

	statementID uuid.UUID
	// Captured from upload and review responses.
	transactionIDs map[string]string // description -> transaction id
	suggestions    map[string][]map[string]any
}

type response struct {
	status int
	body   any
}

var serverInit sync.Once
var serverURL string
var testDB *mock.Db
var testParser *mock.StatementParser

// InitializeTestSuite sets up process-wide test resources.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		_ = os.Setenv("ENV", "test")
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		client: &http.Client{Timeout: 10 * time.Second},
		db: mock.NewDb(map[string]any{
			"bank_statements":   &model.BankStatementModel{},
			"bank_transactions": &model.BankTransactionModel{},
			"expenses":          &model.ExpenseModel{},
			"invoices":          &model.InvoiceModel{},
		}),
		parser: mock.NewStatementParser(),
	}

	testDB = test.db
	testParser = test.parser

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		test.before()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Given(`^a company is authenticated$`, test.aCompanyIsAuthenticated)
	ctx.Given(`^the company header is missing$`, test.theCompanyHeaderIsMissing)

	// Parser stub steps
	ctx.Given(`^the statement parser returns a statement with ending balance "([^"]*)"$`, test.theParserReturnsAStatementWithEndingBalance)
	ctx.Given(`^the parsed statement has a transaction of "([^"]*)" on "([^"]*)" described "([^"]*)"$`, test.theParsedStatementHasATransaction)
	ctx.Given(`^the statement parser fails with "([^"]*)"$`, test.theParserFailsWith)

	// Accounting record steps
	ctx.Given(`^an expense of "([^"]*)" on "([^"]*)" from vendor "([^"]*)" exists$`, test.anExpenseExists)
	ctx.Given(`^a paid invoice "([^"]*)" of "([^"]*)" paid on "([^"]*)" for client "([^"]*)" exists$`, test.aPaidInvoiceExists)
	ctx.Given(`^an unpaid invoice "([^"]*)" of "([^"]*)" exists$`, test.anUnpaidInvoiceExists)

	// Request steps
	ctx.When(`^I upload a statement file named "([^"]*)"$`, test.iUploadAStatementFileNamed)
	ctx.When(`^I start reconciliation for the uploaded statement$`, test.iStartReconciliation)
	ctx.When(`^I fetch the review state$`, test.iFetchTheReviewState)
	ctx.When(`^I confirm the top suggestion for the transaction described "([^"]*)"$`, test.iConfirmTheTopSuggestionFor)
	ctx.When(`^I ignore the transaction described "([^"]*)"$`, test.iIgnoreTheTransactionDescribed)
	ctx.When(`^I flag the transaction described "([^"]*)" as a discrepancy$`, test.iFlagTheTransactionDescribed)
	ctx.When(`^I complete the reconciliation$`, test.iCompleteTheReconciliation)
	ctx.When(`^I force complete the reconciliation$`, test.iForceCompleteTheReconciliation)
	ctx.When(`^I reset the reconciliation$`, test.iResetTheReconciliation)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func (t *testContext) before() {
	t.headers = make(map[string]string)
	t.companyID = uuid.New()
	t.headers["X-Company-ID"] = t.companyID.String()
	t.response = nil
	t.statementID = uuid.Nil
	t.transactionIDs = make(map[string]string)
	t.suggestions = make(map[string][]map[string]any)

	t.parser.Reset()
	if t.db != nil {
		_ = t.db.ClearDB()
	}
	_ = mock.ClearRedis(mock.NewRedis())
}

// startServer wires the real router, controllers and use cases against the
// mock database, redis and parser, and serves them once per test run.
func (t *testContext) startServer() {
	serverInit.Do(func() {
		repo := persistence.NewReconciliationRepository(testDB.DbConn)
		records := adapters.NewCachedRecordsProvider(
			persistence.NewAccountingRepository(testDB.DbConn),
			mock.NewRedis(),
			time.Minute,
		)

		registry := reconciliation.NewSessionRegistry()
		sessionConfig := reconciliation.DefaultSessionConfig()
		sessionConfig.RetryBackoff = time.Millisecond

		uploadStatementUseCase := statement.NewUploadStatementUseCase(repo, testParser)
		startSessionUseCase := reconciliation.NewStartSessionUseCase(repo, records, registry, sessionConfig)
		getReviewUseCase := reconciliation.NewGetReviewUseCase(registry)
		confirmMatchUseCase := reconciliation.NewConfirmMatchUseCase(registry)
		ignoreTransactionUseCase := reconciliation.NewIgnoreTransactionUseCase(registry)
		flagDiscrepancyUseCase := reconciliation.NewFlagDiscrepancyUseCase(registry)
		completeSessionUseCase := reconciliation.NewCompleteSessionUseCase(registry)
		resetSessionUseCase := reconciliation.NewResetSessionUseCase(registry)

		healthController := controller.NewHealthController(func() bool {
			return testDB != nil && testDB.DbConn != nil
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

		uploadRateLimiter := middleware.NewRateLimiter()

		r := router.NewRouter(healthController, statementController, reconciliationController, uploadRateLimiter)
		engine := r.Setup("test")

		server := httptest.NewServer(engine)
		serverURL = server.URL
	})

	t.uri = serverURL
}

func (t *testContext) theAPIServerIsRunning() error {
	t.startServer()
	return nil
}

func (t *testContext) aCompanyIsAuthenticated() error {
	t.headers["X-Company-ID"] = t.companyID.String()
	return nil
}

func (t *testContext) theCompanyHeaderIsMissing() error {
	delete(t.headers, "X-Company-ID")
	return nil
}
