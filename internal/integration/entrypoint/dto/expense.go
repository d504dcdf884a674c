package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	"github.com/expense-tracker/backend/internal/domain/entity"
)

// CreateExpenseRequest represents the request body for recording an expense.
// Amount accepts either a JSON number or a decimal string.
type CreateExpenseRequest struct {
	Title          string           `json:"title" binding:"required"`
	Amount         *decimal.Decimal `json:"amount" binding:"required"`
	Date           string           `json:"date" binding:"required"`
	Type           string           `json:"type" binding:"required"`
	Currency       string           `json:"currency" binding:"required"`
	Channel        string           `json:"channel" binding:"required"`
	Category       string           `json:"category" binding:"required"`
	Notes          *string          `json:"notes,omitempty"`
	BillingMonth   *string          `json:"billingMonth,omitempty"`
	IsRecurring    bool             `json:"isRecurring"`
	RecurringStart *string          `json:"recurringStart,omitempty"`
	RecurringEnd   *string          `json:"recurringEnd,omitempty"`
	RecurringCycle *string          `json:"recurringCycle,omitempty"`
}

// UpdateExpenseRequest represents the request body for a partial update.
// Absent fields are left unchanged; ClearNotes removes the notes.
type UpdateExpenseRequest struct {
	Title          *string          `json:"title,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Date           *string          `json:"date,omitempty"`
	Type           *string          `json:"type,omitempty"`
	Currency       *string          `json:"currency,omitempty"`
	Channel        *string          `json:"channel,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	ClearNotes     bool             `json:"clearNotes,omitempty"`
	BillingMonth   *string          `json:"billingMonth,omitempty"`
	IsRecurring    *bool            `json:"isRecurring,omitempty"`
	RecurringStart *string          `json:"recurringStart,omitempty"`
	RecurringEnd   *string          `json:"recurringEnd,omitempty"`
	RecurringCycle *string          `json:"recurringCycle,omitempty"`
}

// ExpenseResponse represents a single ledger entry in API responses.
// Occurrences carry the "<definitionId>__YYYY-MM" identifier and the definition's id.
type ExpenseResponse struct {
	ID             string    `json:"id"`
	DefinitionID   *string   `json:"definitionId,omitempty"`
	Title          string    `json:"title"`
	Amount         string    `json:"amount"`
	Date           string    `json:"date"`
	Type           string    `json:"type"`
	Currency       string    `json:"currency"`
	Channel        string    `json:"channel"`
	Category       string    `json:"category"`
	Notes          *string   `json:"notes,omitempty"`
	BillingMonth   *string   `json:"billingMonth,omitempty"`
	IsRecurring    bool      `json:"isRecurring"`
	IsOccurrence   bool      `json:"isOccurrence"`
	RecurringStart *string   `json:"recurringStart,omitempty"`
	RecurringEnd   *string   `json:"recurringEnd,omitempty"`
	RecurringCycle *string   `json:"recurringCycle,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ExpenseListResponse represents a page of ledger entries.
type ExpenseListResponse struct {
	Items      []ExpenseResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

// DeleteExpenseResponse represents the response for a deleted expense.
type DeleteExpenseResponse struct {
	ID string `json:"id"`
}

// ToExpenseResponse converts a ledger entry to its API representation.
func ToExpenseResponse(e entity.Entry) ExpenseResponse {
	resp := ExpenseResponse{
		ID:             e.Key(),
		Title:          e.Title,
		Amount:         Money(e.Amount),
		Date:           e.Date.UTC().Format(DateLayout),
		Type:           string(e.Type),
		Currency:       string(e.Currency),
		Channel:        string(e.Channel),
		Category:       string(e.Category),
		Notes:          e.Notes,
		BillingMonth:   formatDate(e.BillingMonth),
		IsRecurring:    e.IsRecurring,
		IsOccurrence:   e.IsOccurrence(),
		RecurringStart: formatDate(e.RecurringStart),
		RecurringEnd:   formatDate(e.RecurringEnd),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if e.RecurringCycle != nil {
		cycle := string(*e.RecurringCycle)
		resp.RecurringCycle = &cycle
	}
	if e.Occurrence != nil {
		def := e.Occurrence.DefinitionID.String()
		resp.DefinitionID = &def
	}
	return resp
}

// ToExpenseListResponse converts a list output to its API representation.
func ToExpenseListResponse(output *expense.ListExpensesOutput) ExpenseListResponse {
	items := make([]ExpenseResponse, 0, len(output.Items))
	for _, e := range output.Items {
		items = append(items, ToExpenseResponse(e))
	}
	return ExpenseListResponse{
		Items:      items,
		Total:      output.Total,
		Page:       output.Page,
		Limit:      output.Limit,
		TotalPages: output.TotalPages,
	}
}
