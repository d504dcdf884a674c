package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
)

// DeleteExpenseInput represents the input for expense deletion.
type DeleteExpenseInput struct {
	ID string
}

// DeleteExpenseOutput carries the id of the removed expense.
type DeleteExpenseOutput struct {
	ID uuid.UUID
}

// DeleteExpenseUseCase handles expense deletion.
type DeleteExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
	publisher   adapter.EventPublisher
	clock       adapter.Clock
}

// NewDeleteExpenseUseCase creates a new DeleteExpenseUseCase instance.
func NewDeleteExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	publisher adapter.EventPublisher,
	clock adapter.Clock,
) *DeleteExpenseUseCase {
	return &DeleteExpenseUseCase{
		expenseRepo: expenseRepo,
		publisher:   publisher,
		clock:       clock,
	}
}

// Execute removes the expense with the given id.
func (uc *DeleteExpenseUseCase) Execute(ctx context.Context, input DeleteExpenseInput) (*DeleteExpenseOutput, error) {
	expense, err := loadExpense(ctx, uc.expenseRepo, input.ID)
	if err != nil {
		return nil, err
	}

	if err := uc.expenseRepo.Delete(ctx, expense.ID); err != nil {
		return nil, fmt.Errorf("failed to delete expense: %w", err)
	}

	publishChange(ctx, uc.publisher, uc.clock, expense, adapter.ExpenseActionDeleted)

	return &DeleteExpenseOutput{ID: expense.ID}, nil
}
