// Package adapters provides implementations for external service integrations.
package adapters

import (
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
)

func geminiResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(text)}},
		}},
	}
}

const sampleStatementJSON = `{
  "account_name": "Operating Account",
  "account_number": "****1234",
  "period_start": "2024-03-01",
  "period_end": "2024-03-31",
  "beginning_balance": "1000.00",
  "ending_balance": "1850.00",
  "warnings": [],
  "transactions": [
    { "date": "2024-03-03", "description": "ACH CREDIT", "amount": "1000.00", "check_number": null },
    { "date": "2024-03-10", "description": "CHECK 1042", "amount": "-150.00", "check_number": "1042" }
  ]
}`

func TestGeminiParserParseResponse(t *testing.T) {
	parser := NewGeminiStatementParser("test-key", "")

	t.Run("parses a well formed response", func(t *testing.T) {
		parsed, err := parser.parseResponse(geminiResponse(sampleStatementJSON))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}

		if parsed.AccountName != "Operating Account" {
			t.Errorf("unexpected account name %q", parsed.AccountName)
		}
		if !parsed.EndingBalance.Equal(decimal.RequireFromString("1850.00")) {
			t.Errorf("unexpected ending balance %s", parsed.EndingBalance)
		}
		if len(parsed.Transactions) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(parsed.Transactions))
		}
		if parsed.Transactions[0].CheckNumber != nil {
			t.Error("expected no check number on the first line")
		}
		if parsed.Transactions[1].CheckNumber == nil || *parsed.Transactions[1].CheckNumber != "1042" {
			t.Error("expected check number 1042 on the second line")
		}
		if !parsed.Transactions[1].Amount.IsNegative() {
			t.Error("expected the check amount to be negative")
		}
	})

	t.Run("strips markdown code fences", func(t *testing.T) {
		fenced := "```json\n" + sampleStatementJSON + "\n```"
		parsed, err := parser.parseResponse(geminiResponse(fenced))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(parsed.Transactions) != 2 {
			t.Errorf("expected 2 transactions, got %d", len(parsed.Transactions))
		}
	})

	t.Run("invalid lines become warnings", func(t *testing.T) {
		raw := strings.Replace(sampleStatementJSON, `"2024-03-10"`, `"not-a-date"`, 1)
		parsed, err := parser.parseResponse(geminiResponse(raw))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(parsed.Transactions) != 1 {
			t.Errorf("expected the invalid line skipped, got %d transactions", len(parsed.Transactions))
		}
		if len(parsed.Warnings) != 1 {
			t.Errorf("expected a warning for the skipped line, got %v", parsed.Warnings)
		}
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		if _, err := parser.parseResponse(geminiResponse("not json at all")); err == nil {
			t.Error("expected an error for malformed JSON")
		}
	})

	t.Run("empty response is an error", func(t *testing.T) {
		if _, err := parser.parseResponse(nil); err == nil {
			t.Error("expected an error for a nil response")
		}
		if _, err := parser.parseResponse(&genai.GenerateContentResponse{}); err == nil {
			t.Error("expected an error for a response without candidates")
		}
	})
}

func TestGeminiParserAvailability(t *testing.T) {
	if NewGeminiStatementParser("", "").IsAvailable() {
		t.Error("expected parser without an API key to be unavailable")
	}
	if !NewGeminiStatementParser("key", "").IsAvailable() {
		t.Error("expected parser with an API key to be available")
	}
}
