package expense

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/recurrence"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// GetSummaryInput represents the input for the monthly summary.
type GetSummaryInput struct {
	Month    string // YYYY-MM or YYYY-MM-DD; empty means the current month
	Currency *entity.Currency
	TZOffset *int
}

// GetSummaryOutput represents the monthly summary.
type GetSummaryOutput struct {
	Month                    string
	Currency                 entity.Currency
	Income                   decimal.Decimal
	Expense                  decimal.Decimal
	CarryForward             decimal.Decimal
	Savings                  decimal.Decimal
	NetPosition              decimal.Decimal
	PotentialNextMonthCCBill decimal.Decimal
	RecurringExpense         int
}

// GetSummaryUseCase computes income, expense and balance figures for one month.
type GetSummaryUseCase struct {
	expenseRepo adapter.ExpenseRepository
	clock       adapter.Clock
	policy      Policy
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(expenseRepo adapter.ExpenseRepository, clock adapter.Clock, policy Policy) *GetSummaryUseCase {
	return &GetSummaryUseCase{
		expenseRepo: expenseRepo,
		clock:       clock,
		policy:      policy,
	}
}

// Execute computes the summary. Either every read succeeds or the summary fails.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*GetSummaryOutput, error) {
	if input.Currency == nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeCurrencyRequired,
			"currency is required",
			domainerror.ErrCurrencyRequired,
		)
	}
	currency := *input.Currency

	now := uc.clock.Now().UTC()
	month := valueobject.YearMonthOf(now)
	if input.Month != "" {
		var err error
		if month, err = valueobject.ParseYearMonth(input.Month); err != nil {
			return nil, err
		}
	}

	offset := valueobject.ResolveTimezoneOffset(input.TZOffset, uc.policy.DefaultTimezoneOffset)
	reconciled := valueobject.Reconcile(month.Range(), now, offset)

	rowFilter := func(t entity.ExpenseType, w valueobject.Window) adapter.ExpenseFilter {
		return adapter.ExpenseFilter{
			Currency:    &currency,
			Type:        &t,
			IsRecurring: uc.policy.rowsFlag(),
			From:        &w.Start,
			To:          &w.End,
		}
	}

	var (
		income, expense, carryForward, ccBill decimal.Decimal
		defs                                  []*entity.Expense
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		income, err = uc.expenseRepo.SumAmount(gctx, rowFilter(entity.ExpenseTypeIncome, reconciled.Normal))
		return err
	})

	g.Go(func() error {
		f := rowFilter(entity.ExpenseTypeExpense, reconciled.Normal)
		f.ExcludeChannels = uc.policy.ExcludedExpenseChannels
		var err error
		expense, err = uc.expenseRepo.SumAmount(gctx, f)
		return err
	})

	g.Go(func() error {
		var err error
		carryForward, err = uc.expenseRepo.SumAmount(gctx, rowFilter(entity.ExpenseTypeCarryForward, reconciled.Normal))
		return err
	})

	g.Go(func() error {
		f := rowFilter(entity.ExpenseTypeExpense, billingCycle(month))
		channel := entity.ChannelCreditCard
		f.Channel = &channel
		var err error
		ccBill, err = uc.expenseRepo.SumAmount(gctx, f)
		return err
	})

	if uc.policy.IncludeRecurring {
		g.Go(func() error {
			var err error
			defs, err = uc.expenseRepo.FindDefinitions(gctx, adapter.ExpenseFilter{Currency: &currency})
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}

	recurringCount := 0
	if uc.policy.IncludeRecurring {
		occurrences := recurrence.ExpandAll(defs, reconciled.Recurring)
		income = income.Add(sumEntries(occurrences, entity.ExpenseTypeIncome, nil))
		expense = expense.Add(sumEntries(occurrences, entity.ExpenseTypeExpense, uc.policy.excludesChannel))
		recurringCount = len(defs)
	}

	savings := income.Sub(expense)

	return &GetSummaryOutput{
		Month:                    month.String(),
		Currency:                 currency,
		Income:                   income,
		Expense:                  expense,
		CarryForward:             carryForward,
		Savings:                  savings,
		NetPosition:              savings.Add(carryForward),
		PotentialNextMonthCCBill: ccBill,
		RecurringExpense:         recurringCount,
	}, nil
}

// billingCycle returns the fixed card statement window used for the next-bill estimate:
// the 6th of the month up to, but excluding, the 5th of the following month.
func billingCycle(month valueobject.YearMonth) valueobject.Window {
	return valueobject.Window{
		Start: month.Day(6),
		End:   month.Next().Day(5),
	}
}
