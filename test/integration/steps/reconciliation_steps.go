package steps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bankrecon/backend/internal/application/adapter"
	"github.com/bankrecon/backend/internal/integration/persistence/model"
)

const dateLayout = "2006-01-02"

// Parser stub steps

func (t *testContext) theParserReturnsAStatementWithEndingBalance(balance string) error {
	ending, err := decimal.NewFromString(balance)
	if err != nil {
		return fmt.Errorf("invalid ending balance %q: %w", balance, err)
	}

	parsed := t.parser.Statement()
	parsed.AccountName = "Operating Account"
	parsed.AccountNumber = "****4821"
	parsed.EndingBalance = ending
	return nil
}

func (t *testContext) theParsedStatementHasATransaction(amount, date, description string) error {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	parsed := t.parser.Statement()
	parsed.Transactions = append(parsed.Transactions, adapter.ParsedTransaction{
		Date:        day,
		Description: description,
		Amount:      value,
	})
	return nil
}

func (t *testContext) theParserFailsWith(message string) error {
	t.parser.SetError(message)
	return nil
}

// Accounting record steps

func (t *testContext) anExpenseExists(amount, date, vendor string) error {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	now := time.Now().UTC()
	expense := &model.ExpenseModel{
		ID:          uuid.New(),
		CompanyID:   t.companyID,
		Description: vendor,
		Amount:      value,
		Date:        day,
		Vendor:      vendor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return t.db.DbConn.Create(expense).Error
}

func (t *testContext) aPaidInvoiceExists(number, total, paidOn, client string) error {
	value, err := decimal.NewFromString(total)
	if err != nil {
		return fmt.Errorf("invalid total %q: %w", total, err)
	}
	paidAt, err := time.Parse(dateLayout, paidOn)
	if err != nil {
		return fmt.Errorf("invalid paid date %q: %w", paidOn, err)
	}

	now := time.Now().UTC()
	invoice := &model.InvoiceModel{
		ID:            uuid.New(),
		CompanyID:     t.companyID,
		InvoiceNumber: number,
		Total:         value,
		PaidAt:        &paidAt,
		ClientName:    client,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return t.db.DbConn.Create(invoice).Error
}

func (t *testContext) anUnpaidInvoiceExists(number, total string) error {
	value, err := decimal.NewFromString(total)
	if err != nil {
		return fmt.Errorf("invalid total %q: %w", total, err)
	}

	now := time.Now().UTC()
	invoice := &model.InvoiceModel{
		ID:            uuid.New(),
		CompanyID:     t.companyID,
		InvoiceNumber: number,
		Total:         value,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return t.db.DbConn.Create(invoice).Error
}

// Request steps

func (t *testContext) iUploadAStatementFileNamed(fileName string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return err
	}
	if _, err := part.Write([]byte("%PDF-1.4 statement fixture")); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	return t.executeRequest(http.MethodPost, "/api/v1/statements", buf.Bytes(), writer.FormDataContentType())
}

func (t *testContext) iStartReconciliation() error {
	return t.executeRequest(http.MethodPost, t.statementPath("/reconcile"), nil, "")
}

func (t *testContext) iFetchTheReviewState() error {
	return t.executeRequest(http.MethodGet, t.statementPath("/review"), nil, "")
}

func (t *testContext) iConfirmTheTopSuggestionFor(description string) error {
	transactionID, ok := t.transactionIDs[description]
	if !ok {
		return fmt.Errorf("no transaction captured for description %q", description)
	}
	candidates := t.suggestions[transactionID]
	if len(candidates) == 0 {
		return fmt.Errorf("no suggestion captured for transaction %q", description)
	}

	payload, err := json.Marshal(map[string]any{
		"type":      candidates[0]["type"],
		"record_id": candidates[0]["record_id"],
	})
	if err != nil {
		return err
	}

	path := t.statementPath("/transactions/" + transactionID + "/confirm")
	return t.executeRequest(http.MethodPost, path, payload, "application/json")
}

func (t *testContext) iIgnoreTheTransactionDescribed(description string) error {
	transactionID, ok := t.transactionIDs[description]
	if !ok {
		return fmt.Errorf("no transaction captured for description %q", description)
	}
	path := t.statementPath("/transactions/" + transactionID + "/ignore")
	return t.executeRequest(http.MethodPost, path, nil, "")
}

func (t *testContext) iFlagTheTransactionDescribed(description string) error {
	transactionID, ok := t.transactionIDs[description]
	if !ok {
		return fmt.Errorf("no transaction captured for description %q", description)
	}
	path := t.statementPath("/transactions/" + transactionID + "/discrepancy")
	return t.executeRequest(http.MethodPost, path, nil, "")
}

func (t *testContext) iCompleteTheReconciliation() error {
	return t.executeRequest(http.MethodPost, t.statementPath("/complete"), nil, "")
}

func (t *testContext) iForceCompleteTheReconciliation() error {
	payload := []byte(`{"force": true}`)
	return t.executeRequest(http.MethodPost, t.statementPath("/complete"), payload, "application/json")
}

func (t *testContext) iResetTheReconciliation() error {
	return t.executeRequest(http.MethodPost, t.statementPath("/reset"), nil, "")
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil, "")
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload, "application/json")
}

func (t *testContext) statementPath(suffix string) string {
	return "/api/v1/statements/" + t.statementID.String() + suffix
}

func (t *testContext) replacePlaceholders(content string) string {
	return strings.ReplaceAll(content, "{{statement_id}}", t.statementID.String())
}

func (t *testContext) executeRequest(method, path string, payload []byte, contentType string) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, t.uri+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody
	t.capture(responseBody)
	return nil
}

// capture records ids from statement and review responses so later steps
// can address transactions by description and confirm captured suggestions.
func (t *testContext) capture(body map[string]any) {
	if stmt, ok := body["statement"].(map[string]any); ok {
		if idStr, ok := stmt["id"].(string); ok {
			if id, err := uuid.Parse(idStr); err == nil {
				t.statementID = id
			}
		}
	}

	if transactions, ok := body["transactions"].([]any); ok {
		for _, raw := range transactions {
			tx, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			id, _ := tx["id"].(string)
			description, _ := tx["description"].(string)
			if id != "" && description != "" {
				t.transactionIDs[description] = id
			}
		}
	}

	if suggestions, ok := body["suggestions"].([]any); ok {
		t.suggestions = make(map[string][]map[string]any)
		for _, raw := range suggestions {
			suggestion, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			transactionID, _ := suggestion["transaction_id"].(string)
			rawCandidates, _ := suggestion["candidates"].([]any)
			var candidates []map[string]any
			for _, rawCandidate := range rawCandidates {
				if candidate, ok := rawCandidate.(map[string]any); ok {
					candidates = append(candidates, candidate)
				}
			}
			if transactionID != "" {
				t.suggestions[transactionID] = candidates
			}
		}
	}
}

// Response assertion steps

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) responseObject() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	return body, nil
}

// getFieldValue walks a dot separated path through nested objects. Numeric
// segments index into arrays.
func getFieldValue(object any, dotSeparatedField string) any {
	field := object
	for _, currentField := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}

		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[currentField]
	}
	return field
}

// Database assertion steps

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	count, err := t.countRows(table, nil)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(content.Content), &criteria); err != nil {
		return err
	}

	count, err := t.countRows(table, criteria)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func (t *testContext) countRows(table string, criteria map[string]any) (int, error) {
	entity, ok := t.db.GetModel(table)
	if !ok {
		return 0, fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, result.Error
	}
	return entitySlicePtr.Elem().Len(), nil
}
