package expense

import (
	"context"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
)

// GetExpenseInput represents the input for fetching one expense.
type GetExpenseInput struct {
	ID string
}

// GetExpenseOutput represents the output of fetching one expense.
type GetExpenseOutput struct {
	Expense *entity.Expense
}

// GetExpenseUseCase handles point lookups.
type GetExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewGetExpenseUseCase creates a new GetExpenseUseCase instance.
func NewGetExpenseUseCase(expenseRepo adapter.ExpenseRepository) *GetExpenseUseCase {
	return &GetExpenseUseCase{expenseRepo: expenseRepo}
}

// Execute returns the stored expense with the given id.
func (uc *GetExpenseUseCase) Execute(ctx context.Context, input GetExpenseInput) (*GetExpenseOutput, error) {
	expense, err := loadExpense(ctx, uc.expenseRepo, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetExpenseOutput{Expense: expense}, nil
}
