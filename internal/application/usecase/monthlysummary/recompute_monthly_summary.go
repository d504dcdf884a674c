// Package monthlysummary contains use cases for persisted monthly balance snapshots.
package monthlysummary

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/recurrence"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// RecomputeInput represents the input for recomputing one snapshot.
type RecomputeInput struct {
	Month    string
	Currency entity.Currency
}

// RecomputeOutput represents the stored snapshot.
type RecomputeOutput struct {
	Summary *entity.MonthlySummary
}

// RecomputeMonthlySummaryUseCase rebuilds and stores the snapshot of a month.
type RecomputeMonthlySummaryUseCase struct {
	expenseRepo      adapter.ExpenseRepository
	summaryRepo      adapter.MonthlySummaryRepository
	clock            adapter.Clock
	includeRecurring bool
}

// NewRecomputeMonthlySummaryUseCase creates a new RecomputeMonthlySummaryUseCase instance.
func NewRecomputeMonthlySummaryUseCase(
	expenseRepo adapter.ExpenseRepository,
	summaryRepo adapter.MonthlySummaryRepository,
	clock adapter.Clock,
	includeRecurring bool,
) *RecomputeMonthlySummaryUseCase {
	return &RecomputeMonthlySummaryUseCase{
		expenseRepo:      expenseRepo,
		summaryRepo:      summaryRepo,
		clock:            clock,
		includeRecurring: includeRecurring,
	}
}

// Execute computes the snapshot over the whole month and upserts it.
func (uc *RecomputeMonthlySummaryUseCase) Execute(ctx context.Context, input RecomputeInput) (*RecomputeOutput, error) {
	if !input.Currency.IsValid() {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidLedgerCurrency,
			"currency must be one of MYR, INR",
			domainerror.ErrInvalidCurrency,
		)
	}

	month, err := valueobject.ParseYearMonth(input.Month)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entries(ctx, month.Range(), input.Currency)
	if err != nil {
		return nil, err
	}

	opening, err := uc.opening(ctx, month, input.Currency, entries)
	if err != nil {
		return nil, err
	}

	summary := classify(entries)
	summary.Month = month.String()
	summary.Currency = input.Currency
	summary.Opening = opening
	summary.UpdatedAt = uc.clock.Now().UTC()
	summary.CalculateClosing()

	if err := uc.summaryRepo.Upsert(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to store monthly summary: %w", err)
	}

	return &RecomputeOutput{Summary: summary}, nil
}

func (uc *RecomputeMonthlySummaryUseCase) entries(
	ctx context.Context,
	window valueobject.Window,
	currency entity.Currency,
) ([]entity.Entry, error) {
	filter := adapter.ExpenseFilter{
		Currency: &currency,
		From:     &window.Start,
		To:       &window.End,
	}
	if uc.includeRecurring {
		normal := false
		filter.IsRecurring = &normal
	}

	rows, err := uc.expenseRepo.Find(ctx, filter, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load month rows: %w", err)
	}

	entries := make([]entity.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entity.EntryFromExpense(row))
	}

	if !uc.includeRecurring {
		return entries, nil
	}

	defs, err := uc.expenseRepo.FindDefinitions(ctx, adapter.ExpenseFilter{Currency: &currency})
	if err != nil {
		return nil, fmt.Errorf("failed to load recurring definitions: %w", err)
	}
	return append(entries, recurrence.ExpandAll(defs, window)...), nil
}

// opening is the previous month's closing, or this month's carry-forward when none is stored.
func (uc *RecomputeMonthlySummaryUseCase) opening(
	ctx context.Context,
	month valueobject.YearMonth,
	currency entity.Currency,
	entries []entity.Entry,
) (decimal.Decimal, error) {
	prev, err := uc.summaryRepo.FindByMonth(ctx, month.Prev().String(), currency)
	if err == nil {
		return prev.Closing, nil
	}
	if !errors.Is(err, domainerror.ErrSummaryNotFound) {
		return decimal.Zero, fmt.Errorf("failed to load previous summary: %w", err)
	}

	total := decimal.Zero
	for _, e := range entries {
		if e.Type == entity.ExpenseTypeCarryForward {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

// classify splits entries into the snapshot's flows.
func classify(entries []entity.Entry) *entity.MonthlySummary {
	s := &entity.MonthlySummary{
		Income:        decimal.Zero,
		ExpenseCash:   decimal.Zero,
		CCBilled:      decimal.Zero,
		CCSettlements: decimal.Zero,
		TransfersIn:   decimal.Zero,
		TransfersOut:  decimal.Zero,
	}

	for _, e := range entries {
		switch e.Type {
		case entity.ExpenseTypeIncome:
			if e.Category == entity.CategoryTransfer {
				s.TransfersIn = s.TransfersIn.Add(e.Amount)
			} else {
				s.Income = s.Income.Add(e.Amount)
			}
		case entity.ExpenseTypeExpense:
			switch {
			case e.Channel == entity.ChannelCreditCard:
				s.CCBilled = s.CCBilled.Add(e.Amount)
			case e.Category == entity.CategoryCreditCardBill:
				s.CCSettlements = s.CCSettlements.Add(e.Amount)
			case e.Category == entity.CategoryTransfer:
				s.TransfersOut = s.TransfersOut.Add(e.Amount)
			default:
				s.ExpenseCash = s.ExpenseCash.Add(e.Amount)
			}
		}
	}

	return s
}
