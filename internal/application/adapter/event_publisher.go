package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// ExpenseAction names the mutation that produced an event.
type ExpenseAction string

const (
	ExpenseActionCreated ExpenseAction = "created"
	ExpenseActionUpdated ExpenseAction = "updated"
	ExpenseActionDeleted ExpenseAction = "deleted"
)

// ExpenseChangedEvent announces a mutation of the ledger.
type ExpenseChangedEvent struct {
	ExpenseID   uuid.UUID       `json:"expense_id"`
	Action      ExpenseAction   `json:"action"`
	Currency    entity.Currency `json:"currency"`
	Date        time.Time       `json:"date"`
	IsRecurring bool            `json:"is_recurring"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// NewExpenseChangedEvent builds the event for an expense.
func NewExpenseChangedEvent(expense *entity.Expense, action ExpenseAction, at time.Time) ExpenseChangedEvent {
	return ExpenseChangedEvent{
		ExpenseID:   expense.ID,
		Action:      action,
		Currency:    expense.Currency,
		Date:        expense.Date,
		IsRecurring: expense.IsRecurring,
		OccurredAt:  at,
	}
}

// EventPublisher publishes ledger events to interested consumers.
type EventPublisher interface {
	// PublishExpenseChanged publishes a change notification.
	PublishExpenseChanged(ctx context.Context, event ExpenseChangedEvent) error
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}
