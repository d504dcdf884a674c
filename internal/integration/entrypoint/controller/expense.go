package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
)

// ExpenseController handles expense endpoints.
type ExpenseController struct {
	createUseCase *expense.CreateExpenseUseCase
	listUseCase   *expense.ListExpensesUseCase
	getUseCase    *expense.GetExpenseUseCase
	updateUseCase *expense.UpdateExpenseUseCase
	deleteUseCase *expense.DeleteExpenseUseCase
}

// NewExpenseController creates a new expense controller instance.
func NewExpenseController(
	createUseCase *expense.CreateExpenseUseCase,
	listUseCase *expense.ListExpensesUseCase,
	getUseCase *expense.GetExpenseUseCase,
	updateUseCase *expense.UpdateExpenseUseCase,
	deleteUseCase *expense.DeleteExpenseUseCase,
) *ExpenseController {
	return &ExpenseController{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// Create handles POST /regular-expenses requests.
func (c *ExpenseController) Create(ctx *gin.Context) {
	var req dto.CreateExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidBody(ctx, err)
		return
	}

	date, err := bodyDate("date", &req.Date)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}
	if date == nil {
		handleLedgerError(ctx, invalidDate("date"))
		return
	}

	input := expense.CreateExpenseInput{
		Title:       req.Title,
		Amount:      *req.Amount,
		Date:        *date,
		Type:        entity.ExpenseType(req.Type),
		Currency:    entity.Currency(req.Currency),
		Channel:     entity.Channel(req.Channel),
		Category:    entity.Category(req.Category),
		Notes:       req.Notes,
		IsRecurring: req.IsRecurring,
	}
	if req.RecurringCycle != nil {
		cycle := entity.RecurringCycle(*req.RecurringCycle)
		input.RecurringCycle = &cycle
	}
	if input.BillingMonth, err = bodyDate("billingMonth", req.BillingMonth); err != nil {
		handleLedgerError(ctx, err)
		return
	}
	if input.RecurringStart, err = bodyDate("recurringStart", req.RecurringStart); err != nil {
		handleLedgerError(ctx, err)
		return
	}
	if input.RecurringEnd, err = bodyDate("recurringEnd", req.RecurringEnd); err != nil {
		handleLedgerError(ctx, err)
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToExpenseResponse(entity.EntryFromExpense(output.Expense)))
}

// List handles GET /expenses requests.
func (c *ExpenseController) List(ctx *gin.Context) {
	input := expense.ListExpensesInput{
		Search: ctx.Query("q"),
	}
	if input.Search == "" {
		input.Search = ctx.Query("search")
	}

	var err error
	if input.Currency, err = expense.ParseCurrency(ctx.Query("currency")); err != nil {
		handleLedgerError(ctx, err)
		return
	}
	if input.Start, err = expense.ParseDate("start", ctx.Query("start")); err != nil {
		handleLedgerError(ctx, err)
		return
	}
	if input.End, err = expense.ParseDate("end", ctx.Query("end")); err != nil {
		handleLedgerError(ctx, err)
		return
	}
	if input.TZOffset, err = expense.ParseTimezoneOffset(ctx.Query("tzOffsetMinutes")); err != nil {
		handleLedgerError(ctx, err)
		return
	}

	if input.Category, err = expense.ParseCategory(ctx.Query("category")); err != nil {
		handleLedgerError(ctx, err)
		return
	}
	if input.Channel, err = expense.ParseChannel(ctx.Query("channel")); err != nil {
		handleLedgerError(ctx, err)
		return
	}
	if input.Type, err = expense.ParseExpenseType(ctx.Query("type")); err != nil {
		handleLedgerError(ctx, err)
		return
	}

	// Unparsable pagination falls back to the defaults
	if page, err := strconv.Atoi(ctx.Query("page")); err == nil {
		input.Page = page
	}
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		input.Limit = limit
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseListResponse(output))
}

// Get handles GET /expenses/:id requests.
func (c *ExpenseController) Get(ctx *gin.Context) {
	output, err := c.getUseCase.Execute(ctx.Request.Context(), expense.GetExpenseInput{ID: ctx.Param("id")})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseResponse(entity.EntryFromExpense(output.Expense)))
}

// Update handles PATCH /expenses/:id requests.
func (c *ExpenseController) Update(ctx *gin.Context) {
	var req dto.UpdateExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidBody(ctx, err)
		return
	}

	input := expense.UpdateExpenseInput{
		ID:          ctx.Param("id"),
		Title:       req.Title,
		Amount:      req.Amount,
		Notes:       req.Notes,
		ClearNotes:  req.ClearNotes,
		IsRecurring: req.IsRecurring,
	}
	if req.Type != nil {
		v := entity.ExpenseType(*req.Type)
		input.Type = &v
	}
	if req.Currency != nil {
		v := entity.Currency(*req.Currency)
		input.Currency = &v
	}
	if req.Channel != nil {
		v := entity.Channel(*req.Channel)
		input.Channel = &v
	}
	if req.Category != nil {
		v := entity.Category(*req.Category)
		input.Category = &v
	}
	if req.RecurringCycle != nil {
		v := entity.RecurringCycle(*req.RecurringCycle)
		input.RecurringCycle = &v
	}

	var err error
	dates := []struct {
		field string
		raw   *string
		dst   **time.Time
	}{
		{"date", req.Date, &input.Date},
		{"billingMonth", req.BillingMonth, &input.BillingMonth},
		{"recurringStart", req.RecurringStart, &input.RecurringStart},
		{"recurringEnd", req.RecurringEnd, &input.RecurringEnd},
	}
	for _, d := range dates {
		if *d.dst, err = bodyDate(d.field, d.raw); err != nil {
			handleLedgerError(ctx, err)
			return
		}
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseResponse(entity.EntryFromExpense(output.Expense)))
}

// Delete handles DELETE /expenses/:id requests.
func (c *ExpenseController) Delete(ctx *gin.Context) {
	output, err := c.deleteUseCase.Execute(ctx.Request.Context(), expense.DeleteExpenseInput{ID: ctx.Param("id")})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DeleteExpenseResponse{ID: output.ID.String()})
}

// bodyDate parses an optional calendar date from a request body.
func bodyDate(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := expense.ParseDate(field, *raw)
	if err != nil {
		return nil, invalidDate(field)
	}
	return t, nil
}

func invalidDate(field string) error {
	return domainerror.NewExpenseError(
		domainerror.ErrCodeInvalidExpenseDate,
		field+" must be a date in YYYY-MM-DD format",
		domainerror.ErrInvalidExpenseDate,
	)
}
