package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/test/integration/mock"
)

var idPlaceholder = regexp.MustCompile(`\{\{id:([^}]+)\}\}`)

func registerSetupSteps(ctx *godog.ScenarioContext, test *testContext) {
	ctx.Given(`^the current time is "([^"]*)"$`, test.theCurrentTimeIs)
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Given(`^the write rate limit allows (\d+) requests per minute$`, test.theWriteRateLimitAllows)
	ctx.Given(`^recurring expenses are not projected$`, test.recurringExpensesAreNotProjected)
	ctx.Given(`^I am authenticated$`, test.iAmAuthenticated)
	ctx.Given(`^I am authenticated with an expired token$`, test.iAmAuthenticatedWithAnExpiredToken)
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)
	ctx.Given(`^the following expenses exist:$`, test.theFollowingExpensesExist)
	ctx.Given(`^(\d+) minutes? pass(?:es)?$`, test.minutesPass)
}

func registerRequestSteps(ctx *godog.ScenarioContext, test *testContext) {
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^the summary worker handles the published events$`, test.theSummaryWorkerHandlesThePublishedEvents)
	ctx.When(`^the summary worker refreshes$`, test.theSummaryWorkerRefreshes)
}

func registerAssertionSteps(ctx *godog.ScenarioContext, test *testContext) {
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should not exist$`, test.theResponseFieldShouldNotExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items?$`, test.theResponseFieldShouldHaveItems)
	ctx.Then(`^the response should have (\d+) items?$`, test.theResponseShouldHaveItems)
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
	ctx.Then(`^the published events should be "([^"]*)"$`, test.thePublishedEventsShouldBe)
}

// Setup steps

func (t *testContext) theCurrentTimeIs(value string) error {
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return err
	}
	t.timeMock.SetCurrentTime(now)
	return nil
}

func (t *testContext) theAPIServerIsRunning() error {
	t.startServer()
	return nil
}

func (t *testContext) theWriteRateLimitAllows(n int) error {
	t.cfg.RateLimit.MaxRequests = n
	t.startServer()
	return nil
}

func (t *testContext) recurringExpensesAreNotProjected() error {
	t.cfg.Ledger.IncludeRecurring = false
	t.startServer()
	return nil
}

func (t *testContext) minutesPass(n int) error {
	d := time.Duration(n) * time.Minute
	t.timeMock.Advance(d)
	mock.FastForwardRedis(d)
	return nil
}

func (t *testContext) iAmAuthenticated() error {
	token, err := t.signToken(time.Now().Add(time.Hour))
	if err != nil {
		return err
	}
	t.accessToken = token
	return nil
}

func (t *testContext) iAmAuthenticatedWithAnExpiredToken() error {
	token, err := t.signToken(time.Now().Add(-time.Hour))
	if err != nil {
		return err
	}
	t.accessToken = token
	return nil
}

func (t *testContext) signToken(expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   "user-1",
		"email": "owner@ledger.test",
		"iss":   testIssuer,
		"iat":   time.Now().Add(-2 * time.Hour).Unix(),
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	return token.SignedString(testSigningKey())
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

// theFollowingExpensesExist stores one row per table line. Columns are the
// API field names; empty cells leave optional fields unset.
func (t *testContext) theFollowingExpensesExist(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return errors.New("expense table needs a header and at least one row")
	}

	header := make([]string, len(table.Rows[0].Cells))
	for i, cell := range table.Rows[0].Cells {
		header[i] = strings.TrimSpace(cell.Value)
	}

	base := t.timeMock.Now().UTC()
	for n, row := range table.Rows[1:] {
		values := make(map[string]string, len(header))
		for i, cell := range row.Cells {
			values[header[i]] = strings.TrimSpace(cell.Value)
		}

		e, err := expenseFromRow(values)
		if err != nil {
			return fmt.Errorf("row %d: %w", n+1, err)
		}
		e.CreatedAt = base.Add(time.Duration(n) * time.Second)
		e.UpdatedAt = e.CreatedAt

		if err := t.injector.ExpenseRepo.Create(context.Background(), e); err != nil {
			return fmt.Errorf("row %d: %w", n+1, err)
		}
		t.ids[e.Title] = e.ID
	}
	return nil
}

func expenseFromRow(values map[string]string) (*entity.Expense, error) {
	amount, err := decimal.NewFromString(values["amount"])
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	date, err := time.Parse("2006-01-02", values["date"])
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	e := entity.NewExpense(
		values["title"],
		amount,
		date,
		entity.ExpenseType(values["type"]),
		entity.Currency(values["currency"]),
		entity.Channel(values["channel"]),
		entity.Category(values["category"]),
	)

	if v := values["notes"]; v != "" {
		e.Notes = &v
	}
	if e.BillingMonth, err = optionalDate(values["billingMonth"]); err != nil {
		return nil, fmt.Errorf("billingMonth: %w", err)
	}
	if e.RecurringStart, err = optionalDate(values["recurringStart"]); err != nil {
		return nil, fmt.Errorf("recurringStart: %w", err)
	}
	if e.RecurringEnd, err = optionalDate(values["recurringEnd"]); err != nil {
		return nil, fmt.Errorf("recurringEnd: %w", err)
	}
	e.IsRecurring = values["isRecurring"] == "true"
	if v := values["recurringCycle"]; v != "" {
		cycle := entity.RecurringCycle(v)
		e.RecurringCycle = &cycle
	} else if e.IsRecurring {
		cycle := entity.RecurringCycleMonthly
		e.RecurringCycle = &cycle
	}
	return e, nil
}

func optionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Request steps

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload)
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{last_id}}", t.lastID)
	return idPlaceholder.ReplaceAllStringFunc(content, func(m string) string {
		title := idPlaceholder.FindStringSubmatch(m)[1]
		if id, ok := t.ids[title]; ok {
			return id.String()
		}
		return m
	})
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	if t.server == nil {
		return errors.New("the API server is not running")
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, t.server.URL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.response.body = string(raw)
		return nil
	}
	t.response.body = decoded

	if object, ok := decoded.(map[string]any); ok {
		if id, ok := object["id"].(string); ok {
			t.lastID = id
			if title, ok := object["title"].(string); ok {
				if parsed, err := uuid.Parse(id); err == nil {
					t.ids[title] = parsed
				}
			}
		}
	}
	return nil
}

func (t *testContext) theSummaryWorkerHandlesThePublishedEvents() error {
	for _, event := range t.publisher.Events() {
		if err := t.injector.SummaryWorker.HandleEvent(context.Background(), event); err != nil {
			return err
		}
	}
	return nil
}

func (t *testContext) theSummaryWorkerRefreshes() error {
	t.injector.SummaryWorker.ProcessNow(context.Background())
	return nil
}

// Assertion steps

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
	switch t.response.body.(type) {
	case map[string]any, []any:
		return nil
	default:
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
}

func (t *testContext) theResponseShouldContain(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	value := getFieldValue(t.response.body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, t.response.body)
	}

	expectedValue = t.replacePlaceholders(expectedValue)
	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if getFieldValue(t.response.body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldNotExist(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if v := getFieldValue(t.response.body, field); v != nil {
		return fmt.Errorf("field '%s' should be absent, got %v", field, v)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, n int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	items, ok := getFieldValue(t.response.body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, t.response.body)
	}
	if len(items) != n {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, n, len(items))
	}
	return nil
}

func (t *testContext) theResponseShouldHaveItems(n int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	items, ok := t.response.body.([]any)
	if !ok {
		return fmt.Errorf("response is not a JSON array: %v", t.response.body)
	}
	if len(items) != n {
		return fmt.Errorf("expected %d items, got %d", n, len(items))
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return t.countRows(quantity, table, nil)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}
	return t.countRows(quantity, table, criteria)
}

func (t *testContext) countRows(quantity int, table string, criteria map[string]any) error {
	model, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	modelType := reflect.TypeOf(model).Elem()
	rows := reflect.New(reflect.SliceOf(modelType))

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	if err := query.Find(rows.Interface()).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if count := rows.Elem().Len(); count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func (t *testContext) thePublishedEventsShouldBe(expected string) error {
	var actions []string
	for _, event := range t.publisher.Events() {
		actions = append(actions, string(event.Action))
	}
	if got := strings.Join(actions, ", "); got != expected {
		return fmt.Errorf("expected events '%s', got '%s'", expected, got)
	}
	return nil
}

// getFieldValue walks a dot separated path; numeric segments index arrays.
func getFieldValue(object any, dotSeparatedField string) any {
	field := object
	for _, current := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}
		if i, err := strconv.Atoi(current); err == nil {
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
		field = m[current]
	}
	return field
}
