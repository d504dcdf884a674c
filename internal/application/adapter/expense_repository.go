// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// ExpenseFilter defines filter options for querying stored records.
// Zero values leave the corresponding column unconstrained.
type ExpenseFilter struct {
	Currency        *entity.Currency
	Category        *entity.Category
	Channel         *entity.Channel
	Type            *entity.ExpenseType
	ExcludeChannels []entity.Channel
	IsRecurring     *bool
	From            *time.Time // inclusive
	To              *time.Time // exclusive
	Search          string     // case-insensitive match on title, notes, category and channel
}

// ExpensePagination defines pagination options.
type ExpensePagination struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip.
func (p ExpensePagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ExpenseRepository defines the interface for expense persistence operations.
type ExpenseRepository interface {
	// Create stores a new expense.
	Create(ctx context.Context, expense *entity.Expense) error

	// FindByID retrieves an expense by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error)

	// Update persists every field of an existing expense.
	Update(ctx context.Context, expense *entity.Expense) error

	// Delete removes an expense.
	Delete(ctx context.Context, id uuid.UUID) error

	// Find returns rows matching the filter ordered by date and creation time, newest first.
	// A nil pagination returns every matching row.
	Find(ctx context.Context, filter ExpenseFilter, pagination *ExpensePagination) ([]*entity.Expense, error)

	// Count returns the number of rows matching the filter.
	Count(ctx context.Context, filter ExpenseFilter) (int64, error)

	// SumAmount returns the total amount of rows matching the filter.
	SumAmount(ctx context.Context, filter ExpenseFilter) (decimal.Decimal, error)

	// FindDefinitions returns recurring definitions matching the filter.
	// Date bounds in the filter are ignored; definitions are windowed by expansion.
	FindDefinitions(ctx context.Context, filter ExpenseFilter) ([]*entity.Expense, error)
}
