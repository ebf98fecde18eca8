// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankrecon/backend/internal/application/adapter"
	"github.com/bankrecon/backend/internal/domain/entity"
	domainerror "github.com/bankrecon/backend/internal/domain/error"
	"github.com/bankrecon/backend/internal/domain/valueobject"
)

// fakeRepository is an in-memory ReconciliationRepository with optional
// per-transaction write failure injection.
type fakeRepository struct {
	mu           sync.Mutex
	statements   map[uuid.UUID]*entity.BankStatement
	transactions map[uuid.UUID]*entity.BankTransaction
	updates      []adapter.MatchUpdate
	failWrites   map[uuid.UUID]int // transaction id -> remaining failures
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		statements:   make(map[uuid.UUID]*entity.BankStatement),
		transactions: make(map[uuid.UUID]*entity.BankTransaction),
		failWrites:   make(map[uuid.UUID]int),
	}
}

func (r *fakeRepository) CreateStatement(_ context.Context, statement *entity.BankStatement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements[statement.ID] = statement
	return nil
}

func (r *fakeRepository) GetStatement(_ context.Context, id uuid.UUID, _ uuid.UUID) (*entity.BankStatement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stmt, ok := r.statements[id]
	if !ok {
		return nil, domainerror.ErrStatementNotFound
	}
	return stmt, nil
}

func (r *fakeRepository) UpdateStatement(_ context.Context, statement *entity.BankStatement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements[statement.ID] = statement
	return nil
}

func (r *fakeRepository) CreateTransactions(_ context.Context, transactions []*entity.BankTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range transactions {
		r.transactions[tx.ID] = tx
	}
	return nil
}

func (r *fakeRepository) ListTransactions(_ context.Context, statementID uuid.UUID) ([]*entity.BankTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.BankTransaction
	for _, tx := range r.transactions {
		if tx.StatementID == statementID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeRepository) UpdateTransactionMatch(_ context.Context, update adapter.MatchUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining, ok := r.failWrites[update.TransactionID]; ok && remaining > 0 {
		r.failWrites[update.TransactionID] = remaining - 1
		return errors.New("store unavailable")
	}

	stored, ok := r.transactions[update.TransactionID]
	if !ok {
		return domainerror.ErrMatchConflict
	}
	if stored.Version != update.ExpectedVersion {
		return domainerror.ErrMatchConflict
	}

	updated := *stored
	updated.MatchStatus = update.Status
	updated.Matched = update.Matched
	updated.Version = stored.Version + 1
	r.transactions[update.TransactionID] = &updated

	r.updates = append(r.updates, update)
	return nil
}

func (r *fakeRepository) storedTransaction(id uuid.UUID) *entity.BankTransaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transactions[id]
}

func testSessionConfig() SessionConfig {
	config := DefaultSessionConfig()
	config.WriteRetries = 1
	config.RetryBackoff = time.Millisecond
	return config
}

func parsedStatement(endingBalance string) *entity.BankStatement {
	stmt := entity.NewBankStatement(uuid.New(), "statement.pdf")
	stmt.Status = entity.StatementStatusParsed
	stmt.EndingBalance = decimal.RequireFromString(endingBalance)
	return stmt
}

func sessionWith(t *testing.T, repo *fakeRepository, stmt *entity.BankStatement, transactions []*entity.BankTransaction, snapshot *adapter.RecordsSnapshot) *Session {
	t.Helper()
	if err := repo.CreateStatement(context.Background(), stmt); err != nil {
		t.Fatal(err)
	}
	for _, tx := range transactions {
		tx.StatementID = stmt.ID
	}
	if err := repo.CreateTransactions(context.Background(), transactions); err != nil {
		t.Fatal(err)
	}

	session := newSession(repo, testSessionConfig(), stmt, transactions, snapshot)
	if err := session.RunAutoMatch(context.Background()); err != nil {
		t.Fatalf("auto-match pass failed: %v", err)
	}
	return session
}

func TestSessionRunAutoMatch(t *testing.T) {
	t.Run("auto-matches, suggests and leaves unmatched", func(t *testing.T) {
		repo := newFakeRepository()
		stmt := parsedStatement("0.00")

		exp := expense("-150.00", date(2024, 3, 1), "Plumbing repair", "Acme Plumbing")
		weak := expense("-210.00", date(2024, 3, 15), "Office chairs", "")
		snapshot := &adapter.RecordsSnapshot{Expenses: []*entity.Expense{exp, weak}}

		auto := withdrawal("-150.00", date(2024, 3, 1), "CHECK 1042 ACME PLUMBING")
		suggested := withdrawal("-200.00", date(2024, 3, 10), "POS PURCHASE")
		unmatched := withdrawal("-999.00", date(2024, 9, 9), "WIRE OUT")

		session := sessionWith(t, repo, stmt, []*entity.BankTransaction{auto, suggested, unmatched}, snapshot)
		state := session.State()

		if state.Stage != valueobject.SessionStageReview {
			t.Fatalf("expected review stage, got %s", state.Stage)
		}

		byID := make(map[uuid.UUID]*entity.BankTransaction)
		for _, tx := range state.Transactions {
			byID[tx.ID] = tx
		}

		if got := byID[auto.ID]; got.MatchStatus != entity.MatchStatusMatched {
			t.Errorf("expected auto-matched, got %s", got.MatchStatus)
		} else if got.Matched == nil || got.Matched.RecordID != exp.ID {
			t.Error("expected match against the plumbing expense")
		}
		if got := byID[suggested.ID]; got.MatchStatus != entity.MatchStatusSuggested {
			t.Errorf("expected suggested, got %s", got.MatchStatus)
		}
		if got := byID[unmatched.ID]; got.MatchStatus != entity.MatchStatusUnmatched {
			t.Errorf("expected unmatched, got %s", got.MatchStatus)
		}

		if state.SuggestionFor(suggested.ID) == nil {
			t.Error("expected a retained suggestion for the suggested transaction")
		}
		if state.SuggestionFor(unmatched.ID) != nil {
			t.Error("expected no suggestion for the unmatched transaction")
		}

		// Only the auto-match and the suggestion were persisted.
		if len(repo.updates) != 2 {
			t.Errorf("expected 2 persisted updates, got %d", len(repo.updates))
		}

		if state.Summary.Counts.Total() != 3 {
			t.Errorf("expected summary over 3 transactions, got %d", state.Summary.Counts.Total())
		}
	})

	t.Run("terminal transactions are left alone", func(t *testing.T) {
		repo := newFakeRepository()
		stmt := parsedStatement("0.00")
		exp := expense("-150.00", date(2024, 3, 1), "Plumbing repair", "Acme Plumbing")
		snapshot := &adapter.RecordsSnapshot{Expenses: []*entity.Expense{exp}}

		ignored := withdrawal("-150.00", date(2024, 3, 1), "CHECK 1042 ACME PLUMBING")
		ignored.MatchStatus = entity.MatchStatusIgnored

		session := sessionWith(t, repo, stmt, []*entity.BankTransaction{ignored}, snapshot)
		state := session.State()

		if state.Transactions[0].MatchStatus != entity.MatchStatusIgnored {
			t.Errorf("expected ignored untouched, got %s", state.Transactions[0].MatchStatus)
		}
		if len(repo.updates) != 0 {
			t.Errorf("expected no writes for terminal transactions, got %d", len(repo.updates))
		}
	})

	t.Run("failed writes are retried then surfaced", func(t *testing.T) {
		repo := newFakeRepository()
		stmt := parsedStatement("0.00")
		exp := expense("-150.00", date(2024, 3, 1), "Plumbing repair", "Acme Plumbing")
		snapshot := &adapter.RecordsSnapshot{Expenses: []*entity.Expense{exp}}

		retried := withdrawal("-150.00", date(2024, 3, 1), "CHECK ACME PLUMBING")
		broken := withdrawal("-150.00", date(2024, 3, 1), "CHECK 2 ACME PLUMBING")
		repo.failWrites[retried.ID] = 1 // first attempt fails, retry succeeds
		repo.failWrites[broken.ID] = 10 // every attempt fails

		session := sessionWith(t, repo, stmt, []*entity.BankTransaction{retried, broken}, snapshot)
		state := session.State()

		if len(state.FailedTransactionIDs) != 1 || state.FailedTransactionIDs[0] != broken.ID {
			t.Errorf("expected only the broken transaction surfaced, got %v", state.FailedTransactionIDs)
		}
		if got := repo.storedTransaction(retried.ID); got.MatchStatus != entity.MatchStatusMatched {
			t.Errorf("expected the retried write to persist, got %s", got.MatchStatus)
		}
	})

	t.Run("cancelled context aborts the pass", func(t *testing.T) {
		repo := newFakeRepository()
		stmt := parsedStatement("0.00")
		session := newSession(repo, testSessionConfig(), stmt, []*entity.BankTransaction{
			withdrawal("-10.00", date(2024, 3, 1), "a"),
		}, &adapter.RecordsSnapshot{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := session.RunAutoMatch(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if session.State().Stage != valueobject.SessionStageUpload {
			t.Error("expected the session to stay in upload after a cancelled pass")
		}
	})
}

func TestSessionManualOperations(t *testing.T) {
	setup := func(t *testing.T) (*fakeRepository, *Session, *entity.BankTransaction, *entity.Expense) {
		t.Helper()
		repo := newFakeRepository()
		stmt := parsedStatement("0.00")
		exp := expense("-205.00", date(2024, 3, 12), "Office supplies", "")
		snapshot := &adapter.RecordsSnapshot{Expenses: []*entity.Expense{exp}}
		tx := withdrawal("-200.00", date(2024, 3, 10), "POS PURCHASE")
		session := sessionWith(t, repo, stmt, []*entity.BankTransaction{tx}, snapshot)
		return repo, session, tx, exp
	}

	t.Run("confirm match sets matched and prunes the suggestion", func(t *testing.T) {
		repo, session, tx, exp := setup(t)

		state, err := session.ConfirmMatch(context.Background(), tx.ID, valueobject.MatchCandidate{
			Type:     entity.MatchedTypeExpense,
			RecordID: exp.ID,
		})
		if err != nil {
			t.Fatalf("confirm failed: %v", err)
		}

		got := state.Transactions[0]
		if got.MatchStatus != entity.MatchStatusMatched {
			t.Errorf("expected matched, got %s", got.MatchStatus)
		}
		if got.Matched == nil || got.Matched.Type != entity.MatchedTypeExpense || got.Matched.RecordID != exp.ID {
			t.Error("expected the confirmed candidate recorded")
		}
		if state.SuggestionFor(tx.ID) != nil {
			t.Error("expected the suggestion pruned after confirm")
		}

		stored := repo.storedTransaction(tx.ID)
		if stored.MatchStatus != entity.MatchStatusMatched {
			t.Errorf("expected the confirm persisted, got %s", stored.MatchStatus)
		}
	})

	t.Run("confirm is idempotent", func(t *testing.T) {
		_, session, tx, exp := setup(t)
		candidate := valueobject.MatchCandidate{Type: entity.MatchedTypeExpense, RecordID: exp.ID}

		first, err := session.ConfirmMatch(context.Background(), tx.ID, candidate)
		if err != nil {
			t.Fatalf("first confirm failed: %v", err)
		}
		second, err := session.ConfirmMatch(context.Background(), tx.ID, candidate)
		if err != nil {
			t.Fatalf("second confirm failed: %v", err)
		}

		if first.Transactions[0].MatchStatus != second.Transactions[0].MatchStatus {
			t.Error("expected identical status after repeated confirm")
		}
		if *first.Transactions[0].Matched != *second.Transactions[0].Matched {
			t.Error("expected identical matched record after repeated confirm")
		}
	})

	t.Run("confirm rejects a candidate of the wrong direction", func(t *testing.T) {
		_, session, tx, _ := setup(t)

		_, err := session.ConfirmMatch(context.Background(), tx.ID, valueobject.MatchCandidate{
			Type:     entity.MatchedTypeInvoice,
			RecordID: uuid.New(),
		})
		if !errors.Is(err, domainerror.ErrCandidateTypeMismatch) {
			t.Errorf("expected candidate type mismatch, got %v", err)
		}
	})

	t.Run("ignore clears the matched record", func(t *testing.T) {
		repo, session, tx, _ := setup(t)

		state, err := session.Ignore(context.Background(), tx.ID)
		if err != nil {
			t.Fatalf("ignore failed: %v", err)
		}
		got := state.Transactions[0]
		if got.MatchStatus != entity.MatchStatusIgnored {
			t.Errorf("expected ignored, got %s", got.MatchStatus)
		}
		if got.Matched != nil {
			t.Error("expected no matched record on an ignored transaction")
		}
		if repo.storedTransaction(tx.ID).Matched != nil {
			t.Error("expected matched references cleared in the store")
		}
	})

	t.Run("flag discrepancy", func(t *testing.T) {
		_, session, tx, _ := setup(t)

		state, err := session.FlagDiscrepancy(context.Background(), tx.ID)
		if err != nil {
			t.Fatalf("flag discrepancy failed: %v", err)
		}
		if state.Transactions[0].MatchStatus != entity.MatchStatusDiscrepancy {
			t.Errorf("expected discrepancy, got %s", state.Transactions[0].MatchStatus)
		}
		if state.Summary.Counts.Discrepancy != 1 {
			t.Errorf("expected discrepancy counted, got %+v", state.Summary.Counts)
		}
	})

	t.Run("unknown transaction is rejected", func(t *testing.T) {
		_, session, _, _ := setup(t)

		_, err := session.Ignore(context.Background(), uuid.New())
		if !errors.Is(err, domainerror.ErrTransactionNotInSession) {
			t.Errorf("expected transaction-not-in-session, got %v", err)
		}
	})

	t.Run("version conflict surfaces as a conflict error", func(t *testing.T) {
		repo, session, tx, _ := setup(t)

		// Another session bumps the stored version behind our back.
		stored := repo.storedTransaction(tx.ID)
		bumped := *stored
		bumped.Version = stored.Version + 1
		repo.mu.Lock()
		repo.transactions[tx.ID] = &bumped
		repo.mu.Unlock()

		_, err := session.Ignore(context.Background(), tx.ID)
		if !errors.Is(err, domainerror.ErrMatchConflict) {
			t.Errorf("expected match conflict, got %v", err)
		}
	})
}

func TestSessionComplete(t *testing.T) {
	setupBalanced := func(t *testing.T) (*fakeRepository, *Session, *entity.BankStatement) {
		t.Helper()
		repo := newFakeRepository()
		exp := expense("-150.00", date(2024, 3, 1), "Plumbing repair", "Acme Plumbing")
		snapshot := &adapter.RecordsSnapshot{Expenses: []*entity.Expense{exp}}
		stmt := parsedStatement("-150.00")
		tx := withdrawal("-150.00", date(2024, 3, 1), "CHECK 1042 ACME PLUMBING")
		session := sessionWith(t, repo, stmt, []*entity.BankTransaction{tx}, snapshot)
		return repo, session, stmt
	}

	t.Run("completes within tolerance and reconciles the statement", func(t *testing.T) {
		repo, session, stmt := setupBalanced(t)

		state, err := session.Complete(context.Background(), false)
		if err != nil {
			t.Fatalf("complete failed: %v", err)
		}
		if state.Stage != valueobject.SessionStageComplete {
			t.Errorf("expected complete stage, got %s", state.Stage)
		}
		if state.Statement.Status != entity.StatementStatusReconciled {
			t.Errorf("expected reconciled statement, got %s", state.Statement.Status)
		}

		stored, err := repo.GetStatement(context.Background(), stmt.ID, stmt.CompanyID)
		if err != nil {
			t.Fatal(err)
		}
		if stored.Status != entity.StatementStatusReconciled {
			t.Errorf("expected reconciled persisted, got %s", stored.Status)
		}
	})

	t.Run("refuses completion outside tolerance unless forced", func(t *testing.T) {
		repo := newFakeRepository()
		stmt := parsedStatement("500.00") // nothing matched, variance 500
		tx := withdrawal("-999.00", date(2024, 9, 9), "WIRE OUT")
		session := sessionWith(t, repo, stmt, []*entity.BankTransaction{tx}, &adapter.RecordsSnapshot{})

		if _, err := session.Complete(context.Background(), false); !errors.Is(err, domainerror.ErrVarianceExceedsTolerance) {
			t.Errorf("expected variance gate, got %v", err)
		}

		state, err := session.Complete(context.Background(), true)
		if err != nil {
			t.Fatalf("forced complete failed: %v", err)
		}
		if state.Stage != valueobject.SessionStageComplete {
			t.Errorf("expected complete stage, got %s", state.Stage)
		}
	})

	t.Run("manual operations are refused after completion", func(t *testing.T) {
		_, session, _ := setupBalanced(t)
		if _, err := session.Complete(context.Background(), false); err != nil {
			t.Fatalf("complete failed: %v", err)
		}

		tx := session.State().Transactions[0]
		if _, err := session.Ignore(context.Background(), tx.ID); !errors.Is(err, domainerror.ErrSessionNotInReview) {
			t.Errorf("expected session-not-in-review, got %v", err)
		}
	})
}

func TestSessionRegistry(t *testing.T) {
	registry := NewSessionRegistry()
	statementID := uuid.New()
	session := newSession(newFakeRepository(), testSessionConfig(), parsedStatement("0.00"), nil, &adapter.RecordsSnapshot{})

	if _, ok := registry.Get(statementID); ok {
		t.Error("expected empty registry")
	}

	registry.Put(statementID, session)
	if got, ok := registry.Get(statementID); !ok || got != session {
		t.Error("expected the registered session back")
	}

	registry.Remove(statementID)
	if _, ok := registry.Get(statementID); ok {
		t.Error("expected the session removed")
	}
}
