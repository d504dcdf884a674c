package expense

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/recurrence"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

const (
	// ChartTopGroups is the number of groups reported individually.
	ChartTopGroups = 4
	// UnknownGroupKey labels entries without a channel or category.
	UnknownGroupKey = "unknown"
	// OthersGroupKey labels the folded remainder.
	OthersGroupKey = "others"
)

// ChartDimension selects the grouping column of a chart.
type ChartDimension string

const (
	ChartByChannel  ChartDimension = "channel"
	ChartByCategory ChartDimension = "category"
)

// GetChartInput represents the input for an expense breakdown.
type GetChartInput struct {
	Dimension ChartDimension
	Currency  *entity.Currency
	Month     string
	Start     *time.Time // inclusive calendar day
	End       *time.Time // inclusive calendar day
	TZOffset  *int
}

// ChartGroup is the expense total of one channel or category.
type ChartGroup struct {
	Key   string
	Total decimal.Decimal
}

// ChartOthers folds every group beyond the top ones.
type ChartOthers struct {
	Total     decimal.Decimal
	Breakdown []ChartGroup
}

// GetChartOutput represents an expense breakdown.
type GetChartOutput struct {
	Dimension ChartDimension
	Groups    []ChartGroup
	Others    ChartOthers
}

// GetChartUseCase groups expense totals by channel or category.
type GetChartUseCase struct {
	expenseRepo adapter.ExpenseRepository
	clock       adapter.Clock
	policy      Policy
}

// NewGetChartUseCase creates a new GetChartUseCase instance.
func NewGetChartUseCase(expenseRepo adapter.ExpenseRepository, clock adapter.Clock, policy Policy) *GetChartUseCase {
	return &GetChartUseCase{
		expenseRepo: expenseRepo,
		clock:       clock,
		policy:      policy,
	}
}

// Execute computes the breakdown.
func (uc *GetChartUseCase) Execute(ctx context.Context, input GetChartInput) (*GetChartOutput, error) {
	window, err := chartWindow(input)
	if err != nil {
		return nil, err
	}

	offset := valueobject.ResolveTimezoneOffset(input.TZOffset, uc.policy.DefaultTimezoneOffset)
	reconciled := valueobject.Reconcile(window, uc.clock.Now(), offset)

	expenseType := entity.ExpenseTypeExpense
	filter := adapter.ExpenseFilter{
		Currency:    input.Currency,
		Type:        &expenseType,
		IsRecurring: uc.policy.rowsFlag(),
		From:        &reconciled.Normal.Start,
		To:          &reconciled.Normal.End,
	}

	rows, err := uc.expenseRepo.Find(ctx, filter, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart rows: %w", err)
	}
	entries := wrapRows(rows)

	if uc.policy.IncludeRecurring {
		defs, err := uc.expenseRepo.FindDefinitions(ctx, adapter.ExpenseFilter{Currency: input.Currency, Type: &expenseType})
		if err != nil {
			return nil, fmt.Errorf("failed to load recurring definitions: %w", err)
		}
		entries = append(entries, recurrence.ExpandAll(defs, reconciled.Recurring)...)
	}

	groups := groupTotals(entries, input.Dimension)
	return bucket(input.Dimension, groups), nil
}

// chartWindow resolves the query window: explicit dates, else the month, else all time.
func chartWindow(input GetChartInput) (valueobject.Window, error) {
	if input.Start != nil || input.End != nil {
		return dateWindow(input.Start, input.End)
	}
	if input.Month != "" {
		return valueobject.ParseMonthRange(input.Month)
	}
	return valueobject.UnboundedWindow(), nil
}

func groupKey(e entity.Entry, dim ChartDimension) string {
	var key string
	if dim == ChartByCategory {
		key = string(e.Category)
	} else {
		key = string(e.Channel)
	}
	if key == "" {
		return UnknownGroupKey
	}
	return key
}

// groupTotals sums entries per key, largest first with ties broken by key.
func groupTotals(entries []entity.Entry, dim ChartDimension) []ChartGroup {
	totals := make(map[string]decimal.Decimal)
	for _, e := range entries {
		k := groupKey(e, dim)
		totals[k] = totals[k].Add(e.Amount)
	}

	groups := make([]ChartGroup, 0, len(totals))
	for k, total := range totals {
		groups = append(groups, ChartGroup{Key: k, Total: total})
	}
	slices.SortFunc(groups, func(a, b ChartGroup) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return groups
}

// bucket keeps the top groups and folds the rest into others.
func bucket(dim ChartDimension, groups []ChartGroup) *GetChartOutput {
	out := &GetChartOutput{
		Dimension: dim,
		Groups:    groups[:min(ChartTopGroups, len(groups))],
		Others:    ChartOthers{Total: decimal.Zero, Breakdown: []ChartGroup{}},
	}
	if len(groups) > ChartTopGroups {
		rest := groups[ChartTopGroups:]
		out.Others.Breakdown = rest
		for _, g := range rest {
			out.Others.Total = out.Others.Total.Add(g.Total)
		}
	}
	return out
}
