package expense

import (
	"context"
	"log/slog"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
)

// publishChange announces a mutation. Delivery failures are logged and never fail the request.
func publishChange(
	ctx context.Context,
	publisher adapter.EventPublisher,
	clock adapter.Clock,
	expense *entity.Expense,
	action adapter.ExpenseAction,
) {
	if publisher == nil {
		return
	}
	event := adapter.NewExpenseChangedEvent(expense, action, clock.Now().UTC())
	if err := publisher.PublishExpenseChanged(ctx, event); err != nil {
		slog.Warn("failed to publish expense event",
			"expense_id", expense.ID.String(),
			"action", string(action),
			"error", err,
		)
	}
}
