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

// CreateExpenseInput represents the input for expense creation.
type CreateExpenseInput struct {
	Title          string
	Amount         decimal.Decimal
	Date           time.Time
	Type           entity.ExpenseType
	Currency       entity.Currency
	Channel        entity.Channel
	Category       entity.Category
	Notes          *string
	BillingMonth   *time.Time
	IsRecurring    bool
	RecurringStart *time.Time
	RecurringEnd   *time.Time
	RecurringCycle *entity.RecurringCycle
}

// CreateExpenseOutput represents the output of expense creation.
type CreateExpenseOutput struct {
	Expense *entity.Expense
}

// CreateExpenseUseCase handles expense creation logic.
type CreateExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
	publisher   adapter.EventPublisher
	clock       adapter.Clock
}

// NewCreateExpenseUseCase creates a new CreateExpenseUseCase instance.
func NewCreateExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	publisher adapter.EventPublisher,
	clock adapter.Clock,
) *CreateExpenseUseCase {
	return &CreateExpenseUseCase{
		expenseRepo: expenseRepo,
		publisher:   publisher,
		clock:       clock,
	}
}

// Execute validates and stores a new expense.
func (uc *CreateExpenseUseCase) Execute(ctx context.Context, input CreateExpenseInput) (*CreateExpenseOutput, error) {
	expense := entity.NewExpense(
		strings.TrimSpace(input.Title),
		input.Amount.Round(2),
		input.Date,
		input.Type,
		input.Currency,
		input.Channel,
		input.Category,
	)
	expense.Notes = input.Notes
	expense.BillingMonth = input.BillingMonth
	expense.IsRecurring = input.IsRecurring
	expense.RecurringStart = input.RecurringStart
	expense.RecurringEnd = input.RecurringEnd
	expense.RecurringCycle = input.RecurringCycle
	if expense.IsRecurring && expense.RecurringCycle == nil {
		monthly := entity.RecurringCycleMonthly
		expense.RecurringCycle = &monthly
	}

	now := uc.clock.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now

	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	publishChange(ctx, uc.publisher, uc.clock, expense, adapter.ExpenseActionCreated)

	return &CreateExpenseOutput{Expense: expense}, nil
}
