// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bankrecon/backend/internal/application/adapter"
	"github.com/bankrecon/backend/internal/domain/entity"
	"github.com/bankrecon/backend/internal/domain/valueobject"
)

func TestFindMatches(t *testing.T) {
	config := valueobject.DefaultMatchingConfig()

	t.Run("withdrawals are scored against expenses only", func(t *testing.T) {
		tx := withdrawal("-150.00", date(2024, 3, 1), "ACME PLUMBING")
		snapshot := &adapter.RecordsSnapshot{
			Expenses: []*entity.Expense{
				expense("-150.00", date(2024, 3, 1), "Plumbing repair", "Acme Plumbing"),
			},
			Invoices: []*entity.PaidInvoice{
				paidInvoice("150.00", date(2024, 3, 1), "INV-9", "Client"),
			},
		}

		candidates := findMatches(config, tx, snapshot)
		if len(candidates) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(candidates))
		}
		if candidates[0].Type != entity.MatchedTypeExpense {
			t.Errorf("expected expense candidate, got %s", candidates[0].Type)
		}
	})

	t.Run("deposits are scored against paid invoices only", func(t *testing.T) {
		tx := deposit("5000.00", date(2024, 4, 1), "ACH CREDIT")
		snapshot := &adapter.RecordsSnapshot{
			Expenses: []*entity.Expense{
				expense("-5000.00", date(2024, 4, 1), "Big payment", "Someone"),
			},
			Invoices: []*entity.PaidInvoice{
				paidInvoice("5000.00", date(2024, 4, 2), "INV-1001", "Globex"),
			},
		}

		candidates := findMatches(config, tx, snapshot)
		if len(candidates) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(candidates))
		}
		if candidates[0].Type != entity.MatchedTypeInvoice {
			t.Errorf("expected invoice candidate, got %s", candidates[0].Type)
		}
		if candidates[0].Description != "Invoice INV-1001 - Globex" {
			t.Errorf("unexpected candidate description %q", candidates[0].Description)
		}
	})

	t.Run("zero amount transaction routes to invoices", func(t *testing.T) {
		tx := deposit("0.00", date(2024, 4, 1), "ADJUSTMENT")
		snapshot := &adapter.RecordsSnapshot{
			Expenses: []*entity.Expense{
				expense("0.00", date(2024, 4, 1), "Adjustment", ""),
			},
			Invoices: []*entity.PaidInvoice{
				paidInvoice("0.00", date(2024, 4, 1), "INV-0", "Nobody"),
			},
		}

		candidates := findMatches(config, tx, snapshot)
		for _, c := range candidates {
			if c.Type != entity.MatchedTypeInvoice {
				t.Errorf("expected only invoice candidates for zero amount, got %s", c.Type)
			}
		}
	})

	t.Run("unpaid invoices are never candidates", func(t *testing.T) {
		tx := deposit("5000.00", date(2024, 4, 1), "ACH CREDIT")
		snapshot := &adapter.RecordsSnapshot{
			Invoices: []*entity.PaidInvoice{
				{InvoiceNumber: "INV-2", Total: decimal.RequireFromString("5000.00")},
			},
		}

		if candidates := findMatches(config, tx, snapshot); len(candidates) != 0 {
			t.Errorf("expected no candidates, got %d", len(candidates))
		}
	})

	t.Run("candidates below the eligibility floor are discarded", func(t *testing.T) {
		tx := withdrawal("-100.00", date(2024, 3, 1), "WIRE OUT")
		snapshot := &adapter.RecordsSnapshot{
			Expenses: []*entity.Expense{
				// Amount within 15% and nothing else: 15 points, below the floor.
				expense("-110.00", date(2024, 6, 1), "Unrelated", ""),
			},
		}

		if candidates := findMatches(config, tx, snapshot); len(candidates) != 0 {
			t.Errorf("expected no candidates below eligibility floor, got %d", len(candidates))
		}

		for _, c := range findMatches(config, tx, snapshot) {
			if c.Confidence < config.EligibilityFloor {
				t.Errorf("candidate with confidence %d below floor %d", c.Confidence, config.EligibilityFloor)
			}
		}
	})

	t.Run("candidates are sorted descending with stable ties", func(t *testing.T) {
		tx := withdrawal("-100.00", date(2024, 3, 1), "PAYMENT")
		first := expense("-100.00", date(2024, 3, 5), "First", "")
		second := expense("-100.00", date(2024, 3, 5), "Second", "")
		best := expense("-100.00", date(2024, 3, 1), "Best", "")
		snapshot := &adapter.RecordsSnapshot{
			Expenses: []*entity.Expense{first, second, best},
		}

		candidates := findMatches(config, tx, snapshot)
		if len(candidates) != 3 {
			t.Fatalf("expected 3 candidates, got %d", len(candidates))
		}
		if candidates[0].RecordID != best.ID {
			t.Error("expected closest-date expense ranked first")
		}
		if candidates[1].RecordID != first.ID || candidates[2].RecordID != second.ID {
			t.Error("expected tied candidates to keep snapshot order")
		}
		for i := 1; i < len(candidates); i++ {
			if candidates[i].Confidence > candidates[i-1].Confidence {
				t.Error("candidates are not sorted descending by confidence")
			}
		}
	})
}
