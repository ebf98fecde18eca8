// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"github.com/bankrecon/backend/internal/application/adapter"
)

// GeminiStatementParser implements the StatementParser using Google Gemini.
// The raw statement file is handed to the model with a JSON response schema
// describing account metadata, the statement period, balances and one entry
// per transaction line.
type GeminiStatementParser struct {
	apiKey    string
	modelName string
}

// NewGeminiStatementParser creates a new Gemini statement parser instance.
func NewGeminiStatementParser(apiKey, modelName string) *GeminiStatementParser {
	if modelName == "" {
		modelName = "gemini-2.5-flash-lite"
	}
	return &GeminiStatementParser{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// IsAvailable checks if the parser is properly configured.
func (p *GeminiStatementParser) IsAvailable() bool {
	return p.apiKey != ""
}

// Parse extracts a structured statement from the raw file bytes.
func (p *GeminiStatementParser) Parse(ctx context.Context, companyID uuid.UUID, fileBytes []byte, statementID uuid.UUID) (*adapter.ParsedStatement, error) {
	if !p.IsAvailable() {
		return nil, fmt.Errorf("gemini parser is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.modelName)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	prompt := p.buildPrompt(statementID)

	resp, err := model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.Blob{MIMEType: "application/pdf", Data: fileBytes},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	parsed, err := p.parseResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return parsed, nil
}

// buildPrompt creates the extraction prompt for Gemini.
func (p *GeminiStatementParser) buildPrompt(statementID uuid.UUID) string {
	var sb strings.Builder

	sb.WriteString(`You are a bank statement extraction engine. Extract the structured data from the attached bank statement document.

RULES:
- Amounts are decimal strings with two fraction digits, e.g. "-150.00".
- Deposits/credits are positive, withdrawals/debits are negative.
- Dates use the YYYY-MM-DD format.
- check_number is null when the line is not a check.
- Include every transaction line exactly once, in statement order.
- When a field cannot be read reliably, add a short note to "warnings" instead of guessing.

Statement reference: `)
	sb.WriteString(statementID.String())
	sb.WriteString(`

RESPONSE FORMAT: return only a JSON object shaped as:
{
  "account_name": "string",
  "account_number": "string",
  "period_start": "YYYY-MM-DD",
  "period_end": "YYYY-MM-DD",
  "beginning_balance": "decimal string",
  "ending_balance": "decimal string",
  "warnings": ["string"],
  "transactions": [
    { "date": "YYYY-MM-DD", "description": "string", "amount": "decimal string", "check_number": "string or null" }
  ]
}
`)

	return sb.String()
}

// geminiStatement represents the raw response from Gemini.
type geminiStatement struct {
	AccountName      string              `json:"account_name"`
	AccountNumber    string              `json:"account_number"`
	PeriodStart      string              `json:"period_start"`
	PeriodEnd        string              `json:"period_end"`
	BeginningBalance string              `json:"beginning_balance"`
	EndingBalance    string              `json:"ending_balance"`
	Warnings         []string            `json:"warnings"`
	Transactions     []geminiTransaction `json:"transactions"`
}

type geminiTransaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	CheckNumber *string `json:"check_number"`
}

// parseResponse parses the Gemini response into a ParsedStatement.
func (p *GeminiStatementParser) parseResponse(resp *genai.GenerateContentResponse) (*adapter.ParsedStatement, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var textContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			textContent = string(text)
			break
		}
	}
	if textContent == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	// Clean the response (remove markdown code blocks if present)
	textContent = strings.TrimPrefix(textContent, "```json")
	textContent = strings.TrimPrefix(textContent, "```")
	textContent = strings.TrimSuffix(textContent, "```")
	textContent = strings.TrimSpace(textContent)

	var raw geminiStatement
	if err := json.Unmarshal([]byte(textContent), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	periodStart, err := time.Parse("2006-01-02", raw.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("invalid period_start %q: %w", raw.PeriodStart, err)
	}
	periodEnd, err := time.Parse("2006-01-02", raw.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid period_end %q: %w", raw.PeriodEnd, err)
	}
	beginning, err := decimal.NewFromString(raw.BeginningBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid beginning_balance %q: %w", raw.BeginningBalance, err)
	}
	ending, err := decimal.NewFromString(raw.EndingBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid ending_balance %q: %w", raw.EndingBalance, err)
	}

	parsed := &adapter.ParsedStatement{
		AccountName:      raw.AccountName,
		AccountNumber:    raw.AccountNumber,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		BeginningBalance: beginning,
		EndingBalance:    ending,
		Warnings:         raw.Warnings,
		Transactions:     make([]adapter.ParsedTransaction, 0, len(raw.Transactions)),
	}

	for _, line := range raw.Transactions {
		date, err := time.Parse("2006-01-02", line.Date)
		if err != nil {
			parsed.Warnings = append(parsed.Warnings, fmt.Sprintf("skipped line with invalid date %q", line.Date))
			continue
		}
		amount, err := decimal.NewFromString(line.Amount)
		if err != nil {
			parsed.Warnings = append(parsed.Warnings, fmt.Sprintf("skipped line with invalid amount %q", line.Amount))
			continue
		}
		parsed.Transactions = append(parsed.Transactions, adapter.ParsedTransaction{
			Date:        date,
			Description: line.Description,
			Amount:      amount,
			CheckNumber: line.CheckNumber,
		})
	}

	return parsed, nil
}
