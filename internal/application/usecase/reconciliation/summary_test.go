// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankrecon/backend/internal/application/adapter"
	"github.com/bankrecon/backend/internal/domain/entity"
)

func matchedTo(tx *entity.BankTransaction, ref entity.MatchedRecord) *entity.BankTransaction {
	tx.MatchStatus = entity.MatchStatusMatched
	tx.Matched = &ref
	return tx
}

func TestSummarize(t *testing.T) {
	t.Run("book balance from matched records only", func(t *testing.T) {
		invoices := []*entity.PaidInvoice{
			paidInvoice("4000.00", date(2024, 4, 1), "INV-1", "A"),
			paidInvoice("3000.00", date(2024, 4, 2), "INV-2", "B"),
			paidInvoice("2000.00", date(2024, 4, 3), "INV-3", "C"),
		}
		expenses := []*entity.Expense{
			expense("-500.00", date(2024, 4, 1), "Rent", ""),
			expense("-400.00", date(2024, 4, 2), "Tools", ""),
			expense("-300.00", date(2024, 4, 3), "Travel", ""),
		}
		snapshot := &adapter.RecordsSnapshot{Expenses: expenses, Invoices: invoices}

		transactions := []*entity.BankTransaction{
			matchedTo(deposit("4000.00", date(2024, 4, 1), "d1"), entity.InvoiceRef(invoices[0].ID)),
			matchedTo(deposit("3000.00", date(2024, 4, 2), "d2"), entity.InvoiceRef(invoices[1].ID)),
			matchedTo(deposit("2000.00", date(2024, 4, 3), "d3"), entity.InvoiceRef(invoices[2].ID)),
			matchedTo(withdrawal("-500.00", date(2024, 4, 1), "w1"), entity.ExpenseRef(expenses[0].ID)),
			matchedTo(withdrawal("-400.00", date(2024, 4, 2), "w2"), entity.ExpenseRef(expenses[1].ID)),
			matchedTo(withdrawal("-300.00", date(2024, 4, 3), "w3"), entity.ExpenseRef(expenses[2].ID)),
			withdrawal("-50.00", date(2024, 4, 4), "u1"),
			withdrawal("-60.00", date(2024, 4, 5), "u2"),
			withdrawal("-70.00", date(2024, 4, 6), "u3"),
			withdrawal("-80.00", date(2024, 4, 7), "u4"),
		}

		summary := summarize(transactions, snapshot, decimal.RequireFromString("8000.00"))

		if !summary.BookBalance.Equal(decimal.RequireFromString("7800.00")) {
			t.Errorf("expected book balance 7800.00, got %s", summary.BookBalance)
		}
		if !summary.Variance.Equal(decimal.RequireFromString("200.00")) {
			t.Errorf("expected variance 200.00, got %s", summary.Variance)
		}
		if summary.Counts.Matched != 6 || summary.Counts.Unmatched != 4 {
			t.Errorf("unexpected counts %+v", summary.Counts)
		}
	})

	t.Run("status counts conserve the transaction total", func(t *testing.T) {
		snapshot := &adapter.RecordsSnapshot{}
		transactions := []*entity.BankTransaction{
			withdrawal("-10.00", date(2024, 4, 1), "a"),
			withdrawal("-10.00", date(2024, 4, 1), "b"),
			withdrawal("-10.00", date(2024, 4, 1), "c"),
			withdrawal("-10.00", date(2024, 4, 1), "d"),
			withdrawal("-10.00", date(2024, 4, 1), "e"),
		}
		transactions[1].MatchStatus = entity.MatchStatusSuggested
		transactions[2].MatchStatus = entity.MatchStatusMatched
		transactions[3].MatchStatus = entity.MatchStatusDiscrepancy
		transactions[4].MatchStatus = entity.MatchStatusIgnored

		summary := summarize(transactions, snapshot, decimal.Zero)
		if summary.Counts.Total() != len(transactions) {
			t.Errorf("expected counts to sum to %d, got %d", len(transactions), summary.Counts.Total())
		}
		if summary.Counts.Unmatched != 1 || summary.Counts.Suggested != 1 || summary.Counts.Matched != 1 ||
			summary.Counts.Discrepancy != 1 || summary.Counts.Ignored != 1 {
			t.Errorf("unexpected counts %+v", summary.Counts)
		}
	})

	t.Run("deposit and withdrawal totals are status independent", func(t *testing.T) {
		snapshot := &adapter.RecordsSnapshot{}
		transactions := []*entity.BankTransaction{
			deposit("100.00", date(2024, 4, 1), "in"),
			withdrawal("-40.00", date(2024, 4, 1), "out"),
		}
		transactions[0].MatchStatus = entity.MatchStatusIgnored
		transactions[1].MatchStatus = entity.MatchStatusDiscrepancy

		summary := summarize(transactions, snapshot, decimal.Zero)
		if !summary.TotalDeposits.Equal(decimal.RequireFromString("100.00")) {
			t.Errorf("expected deposits 100.00, got %s", summary.TotalDeposits)
		}
		if !summary.TotalWithdrawals.Equal(decimal.RequireFromString("40.00")) {
			t.Errorf("expected withdrawals 40.00, got %s", summary.TotalWithdrawals)
		}
	})

	t.Run("matched record missing from snapshot contributes nothing", func(t *testing.T) {
		snapshot := &adapter.RecordsSnapshot{}
		transactions := []*entity.BankTransaction{
			matchedTo(deposit("100.00", date(2024, 4, 1), "in"), entity.InvoiceRef(uuid.New())),
		}

		summary := summarize(transactions, snapshot, decimal.Zero)
		if !summary.BookBalance.IsZero() {
			t.Errorf("expected zero book balance, got %s", summary.BookBalance)
		}
	})
}
