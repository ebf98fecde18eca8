// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/bankrecon/backend/internal/application/adapter"
	"github.com/bankrecon/backend/internal/domain/entity"
	domainerror "github.com/bankrecon/backend/internal/domain/error"
	"github.com/bankrecon/backend/internal/domain/valueobject"
)

// SessionConfig bundles the tunables of a reconciliation session.
type SessionConfig struct {
	Matching          valueobject.MatchingConfig
	Workers           int             // Concurrent transactions during the auto-match pass
	SnapshotLimit     int             // Most-recent-N accounting records per kind
	WriteRetries      int             // Retries after a failed status write
	RetryBackoff      time.Duration   // Base delay between write retries
	VarianceTolerance decimal.Decimal // |variance| at or below this counts as reconciled
}

// DefaultSessionConfig returns the default session configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Matching:          valueobject.DefaultMatchingConfig(),
		Workers:           8,
		SnapshotLimit:     500,
		WriteRetries:      2,
		RetryBackoff:      100 * time.Millisecond,
		VarianceTolerance: decimal.NewFromFloat(0.01),
	}
}

// Session drives the reconciliation of one statement for one caller. All
// transitions replace the current ReviewState with a fresh snapshot; the
// previous snapshot is never mutated, so readers racing a transition always
// observe a consistent state.
type Session struct {
	mu       sync.RWMutex
	repo     adapter.ReconciliationRepository
	config   SessionConfig
	snapshot *adapter.RecordsSnapshot
	state    *valueobject.ReviewState
}

func newSession(repo adapter.ReconciliationRepository, config SessionConfig, statement *entity.BankStatement, transactions []*entity.BankTransaction, snapshot *adapter.RecordsSnapshot) *Session {
	return &Session{
		repo:     repo,
		config:   config,
		snapshot: snapshot,
		state: &valueobject.ReviewState{
			Stage:        valueobject.SessionStageUpload,
			Statement:    statement,
			Transactions: transactions,
		},
	}
}

// State returns the current review snapshot.
func (s *Session) State() *valueobject.ReviewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// txOutcome is the per-transaction result of the auto-match pass. Outcomes
// are written into a preallocated slice, one slot per worker, so the pass
// needs no cross-transaction locking.
type txOutcome struct {
	tx         *entity.BankTransaction
	suggestion *valueobject.MatchSuggestion
	failed     bool
}

// RunAutoMatch performs the upload-to-review transition: every transaction
// is scored and resolved concurrently, status changes are persisted per
// transaction, and the summary is computed only after the whole pass has
// settled. Transactions already in a terminal status are left alone.
//
// An individual write that keeps failing does not abort the pass; the
// transaction id is surfaced in the resulting snapshot instead. Only
// context cancellation returns an error.
func (s *Session) RunAutoMatch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	outcomes := make([]txOutcome, len(prev.Transactions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i, tx := range prev.Transactions {
		i, tx := i, tx
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			outcomes[i] = s.resolveOne(gctx, tx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	transactions := make([]*entity.BankTransaction, len(outcomes))
	var suggestions []valueobject.MatchSuggestion
	var failed []uuid.UUID
	for i, outcome := range outcomes {
		transactions[i] = outcome.tx
		if outcome.suggestion != nil {
			suggestions = append(suggestions, *outcome.suggestion)
		}
		if outcome.failed {
			failed = append(failed, outcome.tx.ID)
		}
	}

	s.state = &valueobject.ReviewState{
		Stage:                valueobject.SessionStageReview,
		Statement:            prev.Statement,
		Transactions:         transactions,
		Suggestions:          suggestions,
		Summary:              summarize(transactions, s.snapshot, prev.Statement.EndingBalance),
		FailedTransactionIDs: failed,
	}
	return nil
}

// resolveOne scores and resolves a single transaction and persists its
// status change. The write is the unit of atomicity: a cancelled pass
// leaves every transaction either fully updated or untouched.
func (s *Session) resolveOne(ctx context.Context, tx *entity.BankTransaction) txOutcome {
	if tx.IsTerminal() || tx.MatchStatus == entity.MatchStatusDiscrepancy {
		return txOutcome{tx: tx}
	}

	candidates := findMatches(s.config.Matching, tx, s.snapshot)
	res := resolve(s.config.Matching, tx, candidates)
	if !res.Write {
		return txOutcome{tx: tx, suggestion: res.Suggestion}
	}

	updated := *tx
	updated.MatchStatus = res.Status
	updated.Matched = res.Matched

	err := s.writeWithRetry(ctx, adapter.MatchUpdate{
		TransactionID:   tx.ID,
		ExpectedVersion: tx.Version,
		Status:          res.Status,
		Matched:         res.Matched,
	})
	if err != nil {
		slog.Error("Failed to persist transaction match",
			"transaction_id", tx.ID,
			"status", res.Status,
			"error", err,
		)
		return txOutcome{tx: &updated, suggestion: res.Suggestion, failed: true}
	}

	updated.Version = tx.Version + 1
	return txOutcome{tx: &updated, suggestion: res.Suggestion}
}

// writeWithRetry persists a match update, retrying transient store
// failures with a growing backoff. Version conflicts are not retried:
// another session owns the transaction.
func (s *Session) writeWithRetry(ctx context.Context, update adapter.MatchUpdate) error {
	var err error
	for attempt := 0; attempt <= s.config.WriteRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.config.RetryBackoff * time.Duration(attempt)):
			}
		}
		err = s.repo.UpdateTransactionMatch(ctx, update)
		if err == nil || errors.Is(err, domainerror.ErrMatchConflict) {
			return err
		}
	}
	return err
}

// ConfirmMatch sets a transaction to matched with the chosen candidate,
// regardless of the candidate's score, and drops the transaction from the
// suggestion set. Re-invoking with the same candidate produces the same end
// state; each call performs a fresh persistence write.
func (s *Session) ConfirmMatch(ctx context.Context, transactionID uuid.UUID, candidate valueobject.MatchCandidate) (*valueobject.ReviewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.transactionInReview(transactionID)
	if err != nil {
		return nil, err
	}

	if (candidate.Type == entity.MatchedTypeExpense) == tx.IsDeposit() {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeCandidateTypeMismatch,
			"candidate type does not fit transaction direction",
			domainerror.ErrCandidateTypeMismatch,
		)
	}

	ref := candidate.Ref()
	return s.applyManualUpdate(ctx, tx, entity.MatchStatusMatched, &ref)
}

// Ignore unconditionally sets a transaction to ignored and removes it from
// the suggestion set.
func (s *Session) Ignore(ctx context.Context, transactionID uuid.UUID) (*valueobject.ReviewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.transactionInReview(transactionID)
	if err != nil {
		return nil, err
	}
	return s.applyManualUpdate(ctx, tx, entity.MatchStatusIgnored, nil)
}

// FlagDiscrepancy marks a transaction as a discrepancy and removes it from
// the suggestion set.
func (s *Session) FlagDiscrepancy(ctx context.Context, transactionID uuid.UUID) (*valueobject.ReviewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.transactionInReview(transactionID)
	if err != nil {
		return nil, err
	}
	return s.applyManualUpdate(ctx, tx, entity.MatchStatusDiscrepancy, nil)
}

// Complete acknowledges the review and marks the statement reconciled.
// Unless force is set, completion is refused while the variance is outside
// the configured tolerance.
func (s *Session) Complete(ctx context.Context, force bool) (*valueobject.ReviewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	if prev.Stage != valueobject.SessionStageReview {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeSessionNotInReview,
			"session is not in review",
			domainerror.ErrSessionNotInReview,
		)
	}

	if !force && !prev.Summary.IsReconciled(s.config.VarianceTolerance) {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeVarianceExceedsTolerance,
			"variance exceeds tolerance, use force to override",
			domainerror.ErrVarianceExceedsTolerance,
		)
	}

	statement := *prev.Statement
	statement.Status = entity.StatementStatusReconciled
	statement.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateStatement(ctx, &statement); err != nil {
		return nil, err
	}

	s.state = &valueobject.ReviewState{
		Stage:                valueobject.SessionStageComplete,
		Statement:            &statement,
		Transactions:         prev.Transactions,
		Suggestions:          prev.Suggestions,
		Summary:              prev.Summary,
		FailedTransactionIDs: prev.FailedTransactionIDs,
	}
	return s.state, nil
}

// transactionInReview returns the session's copy of a transaction,
// verifying that the session is reviewable and the transaction belongs to
// it. Callers must hold the session lock.
func (s *Session) transactionInReview(transactionID uuid.UUID) (*entity.BankTransaction, error) {
	if s.state.Stage != valueobject.SessionStageReview {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeSessionNotInReview,
			"session is not in review",
			domainerror.ErrSessionNotInReview,
		)
	}
	for _, tx := range s.state.Transactions {
		if tx.ID == transactionID {
			return tx, nil
		}
	}
	return nil, domainerror.NewReconciliationError(
		domainerror.ErrCodeTransactionNotInSession,
		"transaction not part of session",
		domainerror.ErrTransactionNotInSession,
	)
}

// applyManualUpdate persists a manual status change, then rebuilds the
// review snapshot with the updated transaction, a pruned suggestion set and
// a recomputed summary. The candidate finder is not re-run. Callers must
// hold the session lock.
func (s *Session) applyManualUpdate(ctx context.Context, tx *entity.BankTransaction, status entity.MatchStatus, matched *entity.MatchedRecord) (*valueobject.ReviewState, error) {
	err := s.repo.UpdateTransactionMatch(ctx, adapter.MatchUpdate{
		TransactionID:   tx.ID,
		ExpectedVersion: tx.Version,
		Status:          status,
		Matched:         matched,
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrMatchConflict) {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeMatchConflict,
				"transaction was modified by another session",
				domainerror.ErrMatchConflict,
			)
		}
		return nil, err
	}

	updated := *tx
	updated.MatchStatus = status
	updated.Matched = matched
	updated.Version = tx.Version + 1

	prev := s.state
	transactions := make([]*entity.BankTransaction, len(prev.Transactions))
	for i, t := range prev.Transactions {
		if t.ID == updated.ID {
			transactions[i] = &updated
		} else {
			transactions[i] = t
		}
	}

	suggestions := make([]valueobject.MatchSuggestion, 0, len(prev.Suggestions))
	for _, sg := range prev.Suggestions {
		if sg.TransactionID != updated.ID {
			suggestions = append(suggestions, sg)
		}
	}

	s.state = &valueobject.ReviewState{
		Stage:                valueobject.SessionStageReview,
		Statement:            prev.Statement,
		Transactions:         transactions,
		Suggestions:          suggestions,
		Summary:              summarize(transactions, s.snapshot, prev.Statement.EndingBalance),
		FailedTransactionIDs: prev.FailedTransactionIDs,
	}
	return s.state, nil
}
