package expense

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
)

// UpdateExpenseInput represents a partial patch. Nil fields are left unchanged.
type UpdateExpenseInput struct {
	ID             string
	Title          *string
	Amount         *decimal.Decimal
	Date           *time.Time
	Type           *entity.ExpenseType
	Currency       *entity.Currency
	Channel        *entity.Channel
	Category       *entity.Category
	Notes          *string
	ClearNotes     bool
	BillingMonth   *time.Time
	IsRecurring    *bool
	RecurringStart *time.Time
	RecurringEnd   *time.Time
	RecurringCycle *entity.RecurringCycle
}

// UpdateExpenseOutput represents the output of an update.
type UpdateExpenseOutput struct {
	Expense *entity.Expense
}

// UpdateExpenseUseCase handles partial updates.
type UpdateExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
	publisher   adapter.EventPublisher
	clock       adapter.Clock
}

// NewUpdateExpenseUseCase creates a new UpdateExpenseUseCase instance.
func NewUpdateExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	publisher adapter.EventPublisher,
	clock adapter.Clock,
) *UpdateExpenseUseCase {
	return &UpdateExpenseUseCase{
		expenseRepo: expenseRepo,
		publisher:   publisher,
		clock:       clock,
	}
}

// Execute applies the patch and re-validates the record.
func (uc *UpdateExpenseUseCase) Execute(ctx context.Context, input UpdateExpenseInput) (*UpdateExpenseOutput, error) {
	expense, err := loadExpense(ctx, uc.expenseRepo, input.ID)
	if err != nil {
		return nil, err
	}

	applyPatch(expense, input)
	expense.UpdatedAt = uc.clock.Now().UTC()

	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	if err := uc.expenseRepo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	publishChange(ctx, uc.publisher, uc.clock, expense, adapter.ExpenseActionUpdated)

	return &UpdateExpenseOutput{Expense: expense}, nil
}

func applyPatch(e *entity.Expense, in UpdateExpenseInput) {
	if in.Title != nil {
		e.Title = strings.TrimSpace(*in.Title)
	}
	if in.Amount != nil {
		e.Amount = in.Amount.Round(2)
	}
	if in.Date != nil {
		e.Date = *in.Date
	}
	if in.Type != nil {
		e.Type = *in.Type
	}
	if in.Currency != nil {
		e.Currency = *in.Currency
	}
	if in.Channel != nil {
		e.Channel = *in.Channel
	}
	if in.Category != nil {
		e.Category = *in.Category
	}
	if in.ClearNotes {
		e.Notes = nil
	} else if in.Notes != nil {
		e.Notes = in.Notes
	}
	if in.BillingMonth != nil {
		e.BillingMonth = in.BillingMonth
	}
	if in.IsRecurring != nil {
		e.IsRecurring = *in.IsRecurring
	}
	if in.RecurringStart != nil {
		e.RecurringStart = in.RecurringStart
	}
	if in.RecurringEnd != nil {
		e.RecurringEnd = in.RecurringEnd
	}
	if in.RecurringCycle != nil {
		e.RecurringCycle = in.RecurringCycle
	}
}
