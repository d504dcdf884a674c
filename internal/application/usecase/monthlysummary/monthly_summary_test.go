package monthlysummary

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

type stubExpenses struct {
	adapter.ExpenseRepository
	rows []*entity.Expense
}

func (s *stubExpenses) Find(_ context.Context, f adapter.ExpenseFilter, _ *adapter.ExpensePagination) ([]*entity.Expense, error) {
	var out []*entity.Expense
	for _, r := range s.rows {
		if f.Currency != nil && r.Currency != *f.Currency {
			continue
		}
		if f.IsRecurring != nil && r.IsRecurring != *f.IsRecurring {
			continue
		}
		if r.Date.Before(*f.From) || !r.Date.Before(*f.To) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *stubExpenses) FindDefinitions(_ context.Context, f adapter.ExpenseFilter) ([]*entity.Expense, error) {
	var out []*entity.Expense
	for _, r := range s.rows {
		if r.IsRecurring && (f.Currency == nil || r.Currency == *f.Currency) {
			out = append(out, r)
		}
	}
	return out, nil
}

type memorySummaries struct {
	byKey   map[string]*entity.MonthlySummary
	upserts int
}

func newMemorySummaries() *memorySummaries {
	return &memorySummaries{byKey: map[string]*entity.MonthlySummary{}}
}

func (m *memorySummaries) Upsert(_ context.Context, s *entity.MonthlySummary) error {
	m.upserts++
	cp := *s
	m.byKey[s.Month+string(s.Currency)] = &cp
	return nil
}

func (m *memorySummaries) FindByMonth(_ context.Context, month string, c entity.Currency) (*entity.MonthlySummary, error) {
	if s, ok := m.byKey[month+string(c)]; ok {
		return s, nil
	}
	return nil, domainerror.ErrSummaryNotFound
}

func (m *memorySummaries) ListByCurrency(_ context.Context, c entity.Currency) ([]*entity.MonthlySummary, error) {
	var out []*entity.MonthlySummary
	for _, s := range m.byKey {
		if s.Currency == c {
			out = append(out, s)
		}
	}
	return out, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(amount int64, date time.Time, t entity.ExpenseType, ch entity.Channel, cat entity.Category) *entity.Expense {
	return &entity.Expense{
		ID:       uuid.New(),
		Title:    string(cat),
		Amount:   decimal.NewFromInt(amount),
		Date:     date,
		Type:     t,
		Currency: entity.CurrencyMYR,
		Channel:  ch,
		Category: cat,
	}
}

func ledger() *stubExpenses {
	rent := rec(1200, day(2024, 1, 1), entity.ExpenseTypeExpense, entity.ChannelOnlineBanking, entity.CategoryRent)
	rent.IsRecurring = true
	start := day(2024, 1, 3)
	rent.RecurringStart = &start

	inr := rec(99999, day(2024, 3, 2), entity.ExpenseTypeIncome, entity.ChannelUPI, entity.CategorySalary)
	inr.Currency = entity.CurrencyINR

	return &stubExpenses{rows: []*entity.Expense{
		rent,
		inr,
		rec(300, day(2024, 3, 1), entity.ExpenseTypeCarryForward, entity.ChannelCarryForward, entity.CategoryCarryForward),
		rec(5000, day(2024, 3, 1), entity.ExpenseTypeIncome, entity.ChannelOnlineBanking, entity.CategorySalary),
		rec(200, day(2024, 3, 4), entity.ExpenseTypeIncome, entity.ChannelOnlineBanking, entity.CategoryTransfer),
		rec(450, day(2024, 3, 9), entity.ExpenseTypeExpense, entity.ChannelCreditCard, entity.CategoryShopping),
		rec(800, day(2024, 3, 10), entity.ExpenseTypeExpense, entity.ChannelOnlineBanking, entity.CategoryCreditCardBill),
		rec(1000, day(2024, 3, 11), entity.ExpenseTypeExpense, entity.ChannelOnlineBanking, entity.CategoryTransfer),
		rec(250, day(2024, 3, 12), entity.ExpenseTypeExpense, entity.ChannelCash, entity.CategoryGroceries),
		rec(40, day(2024, 4, 2), entity.ExpenseTypeExpense, entity.ChannelCash, entity.CategoryGroceries),
	}}
}

var clock = fixedClock{now: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)}

func TestRecompute_ClassifiesFlows(t *testing.T) {
	summaries := newMemorySummaries()
	uc := NewRecomputeMonthlySummaryUseCase(ledger(), summaries, clock, true)

	out, err := uc.Execute(context.Background(), RecomputeInput{Month: "2024-03", Currency: entity.CurrencyMYR})
	require.NoError(t, err)

	s := out.Summary
	assert.Equal(t, "2024-03", s.Month)
	assert.True(t, s.Opening.Equal(decimal.NewFromInt(300)), "opening %s", s.Opening)
	assert.True(t, s.Income.Equal(decimal.NewFromInt(5000)), "income %s", s.Income)
	assert.True(t, s.TransfersIn.Equal(decimal.NewFromInt(200)), "transfersIn %s", s.TransfersIn)
	assert.True(t, s.CCBilled.Equal(decimal.NewFromInt(450)), "ccBilled %s", s.CCBilled)
	assert.True(t, s.CCSettlements.Equal(decimal.NewFromInt(800)), "ccSettlements %s", s.CCSettlements)
	assert.True(t, s.TransfersOut.Equal(decimal.NewFromInt(1000)), "transfersOut %s", s.TransfersOut)
	// Groceries plus the projected rent occurrence on the 3rd; the future month is outside.
	assert.True(t, s.ExpenseCash.Equal(decimal.NewFromInt(1450)), "expenseCash %s", s.ExpenseCash)
	// 300 + 5000 + 200 - 1450 - 800 - 1000
	assert.True(t, s.Closing.Equal(decimal.NewFromInt(2250)), "closing %s", s.Closing)
	assert.Equal(t, clock.now, s.UpdatedAt)
	assert.Equal(t, 1, summaries.upserts)
}

func TestRecompute_OpeningChainsFromPreviousClosing(t *testing.T) {
	summaries := newMemorySummaries()
	uc := NewRecomputeMonthlySummaryUseCase(ledger(), summaries, clock, true)
	ctx := context.Background()

	_, err := uc.Execute(ctx, RecomputeInput{Month: "2024-03", Currency: entity.CurrencyMYR})
	require.NoError(t, err)

	april, err := uc.Execute(ctx, RecomputeInput{Month: "2024-04-15", Currency: entity.CurrencyMYR})
	require.NoError(t, err)

	assert.Equal(t, "2024-04", april.Summary.Month)
	assert.True(t, april.Summary.Opening.Equal(decimal.NewFromInt(2250)))
	// 40 groceries + 1200 rent
	assert.True(t, april.Summary.ExpenseCash.Equal(decimal.NewFromInt(1240)))
	assert.True(t, april.Summary.Closing.Equal(decimal.NewFromInt(1010)))
}

func TestRecompute_ManualModeSkipsProjection(t *testing.T) {
	uc := NewRecomputeMonthlySummaryUseCase(ledger(), newMemorySummaries(), clock, false)

	out, err := uc.Execute(context.Background(), RecomputeInput{Month: "2024-03", Currency: entity.CurrencyMYR})
	require.NoError(t, err)

	assert.True(t, out.Summary.ExpenseCash.Equal(decimal.NewFromInt(250)))
}

func TestRecompute_Validation(t *testing.T) {
	uc := NewRecomputeMonthlySummaryUseCase(ledger(), newMemorySummaries(), clock, true)

	_, err := uc.Execute(context.Background(), RecomputeInput{Month: "2024-3", Currency: entity.CurrencyMYR})
	var ledgerErr *domainerror.LedgerError
	require.ErrorAs(t, err, &ledgerErr)
	assert.Equal(t, domainerror.ErrCodeInvalidMonthFormat, ledgerErr.Code)

	_, err = uc.Execute(context.Background(), RecomputeInput{Month: "2024-03", Currency: "USD"})
	require.ErrorAs(t, err, &ledgerErr)
	assert.Equal(t, domainerror.ErrCodeInvalidLedgerCurrency, ledgerErr.Code)
}

func TestGetMonthlySummary_ReadThrough(t *testing.T) {
	summaries := newMemorySummaries()
	recompute := NewRecomputeMonthlySummaryUseCase(ledger(), summaries, clock, true)
	uc := NewGetMonthlySummaryUseCase(summaries, recompute)
	myr := entity.CurrencyMYR

	first, err := uc.Execute(context.Background(), GetInput{Month: "2024-03", Currency: &myr})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), GetInput{Month: "2024-03", Currency: &myr})
	require.NoError(t, err)

	assert.Equal(t, 1, summaries.upserts, "second read should hit the stored snapshot")
	assert.True(t, first.Summary.Closing.Equal(second.Summary.Closing))

	_, err = uc.Execute(context.Background(), GetInput{Month: "2024-03"})
	var ledgerErr *domainerror.LedgerError
	require.ErrorAs(t, err, &ledgerErr)
	assert.Equal(t, domainerror.ErrCodeCurrencyRequired, ledgerErr.Code)
}

func TestListMonthlySummaries(t *testing.T) {
	summaries := newMemorySummaries()
	recompute := NewRecomputeMonthlySummaryUseCase(ledger(), summaries, clock, true)
	ctx := context.Background()
	for _, m := range []string{"2024-03", "2024-04"} {
		_, err := recompute.Execute(ctx, RecomputeInput{Month: m, Currency: entity.CurrencyMYR})
		require.NoError(t, err)
	}

	myr := entity.CurrencyMYR
	out, err := NewListMonthlySummariesUseCase(summaries).Execute(ctx, ListInput{Currency: &myr})
	require.NoError(t, err)
	assert.Len(t, out.Summaries, 2)

	inr := entity.CurrencyINR
	out, err = NewListMonthlySummariesUseCase(summaries).Execute(ctx, ListInput{Currency: &inr})
	require.NoError(t, err)
	assert.Empty(t, out.Summaries)
}
