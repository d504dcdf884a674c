package expense

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/recurrence"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// ListExpensesInput represents the input for listing ledger entries.
type ListExpensesInput struct {
	Search   string
	Category *entity.Category
	Channel  *entity.Channel
	Currency *entity.Currency
	Type     *entity.ExpenseType
	Start    *time.Time // inclusive calendar day
	End      *time.Time // inclusive calendar day
	Page     int
	Limit    int
	TZOffset *int
}

// ListExpensesOutput represents one page of ledger entries.
type ListExpensesOutput struct {
	Items      []entity.Entry
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ListExpensesUseCase lists stored rows and, in recurring mode, projected occurrences.
type ListExpensesUseCase struct {
	expenseRepo adapter.ExpenseRepository
	clock       adapter.Clock
	policy      Policy
}

// NewListExpensesUseCase creates a new ListExpensesUseCase instance.
func NewListExpensesUseCase(expenseRepo adapter.ExpenseRepository, clock adapter.Clock, policy Policy) *ListExpensesUseCase {
	return &ListExpensesUseCase{
		expenseRepo: expenseRepo,
		clock:       clock,
		policy:      policy,
	}
}

// Execute returns the requested page.
func (uc *ListExpensesUseCase) Execute(ctx context.Context, input ListExpensesInput) (*ListExpensesOutput, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	window, err := dateWindow(input.Start, input.End)
	if err != nil {
		return nil, err
	}

	filter := adapter.ExpenseFilter{
		Currency: input.Currency,
		Category: input.Category,
		Channel:  input.Channel,
		Type:     input.Type,
		Search:   strings.TrimSpace(input.Search),
		From:     &window.Start,
		To:       &window.End,
	}

	if !uc.policy.IncludeRecurring {
		return uc.listRows(ctx, filter, page, limit)
	}

	rowFilter := filter
	rowFilter.IsRecurring = uc.policy.rowsFlag()
	rows, err := uc.expenseRepo.Find(ctx, rowFilter, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	defs, err := uc.expenseRepo.FindDefinitions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring definitions: %w", err)
	}

	offset := valueobject.ResolveTimezoneOffset(input.TZOffset, uc.policy.DefaultTimezoneOffset)
	reconciled := valueobject.Reconcile(window, uc.clock.Now(), offset)

	merged := append(wrapRows(rows), recurrence.ExpandAll(defs, reconciled.Recurring)...)
	sortEntries(merged)

	total := int64(len(merged))
	from := min((page-1)*limit, len(merged))
	to := min(from+limit, len(merged))

	return &ListExpensesOutput{
		Items:      merged[from:to],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// listRows pages stored rows in the store without projecting definitions.
func (uc *ListExpensesUseCase) listRows(ctx context.Context, filter adapter.ExpenseFilter, page, limit int) (*ListExpensesOutput, error) {
	rows, err := uc.expenseRepo.Find(ctx, filter, &adapter.ExpensePagination{Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	total, err := uc.expenseRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count expenses: %w", err)
	}

	return &ListExpensesOutput{
		Items:      wrapRows(rows),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}
