package recurrence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func definition() *entity.Expense {
	def := entity.NewExpense("Rent", decimal.NewFromInt(1500), day(2023, 1, 1),
		entity.ExpenseTypeExpense, entity.CurrencyMYR, entity.ChannelOnlineBanking, entity.CategoryRent)
	def.IsRecurring = true
	def.RecurringCycle = ptr(entity.RecurringCycleMonthly)
	return def
}

func occurrenceDays(entries []entity.Entry) []int {
	days := make([]int, len(entries))
	for i, e := range entries {
		days[i] = e.Date.Day()
	}
	return days
}

func TestExpand_AnchorClamping(t *testing.T) {
	def := definition()
	def.BillingMonth = ptr(day(2023, 1, 31))

	got := Expand(def, valueobject.Window{Start: day(2023, 1, 1), End: day(2023, 5, 1)})

	assert.Equal(t, []int{31, 28, 31, 30}, occurrenceDays(got))
	for _, e := range got {
		require.NotNil(t, e.Occurrence)
		assert.Equal(t, def.ID, e.Occurrence.DefinitionID)
		assert.Equal(t, valueobject.YearMonthOf(e.Date), e.Occurrence.Month)
		assert.True(t, e.IsOccurrence())
	}
	assert.Equal(t, def.ID.String()+"__2023-02", got[1].Key())
}

func TestExpand_LeapYear(t *testing.T) {
	def := definition()
	def.RecurringStart = ptr(day(2024, 1, 30))

	got := Expand(def, valueobject.Window{Start: day(2024, 2, 1), End: day(2024, 3, 1)})

	require.Len(t, got, 1)
	assert.Equal(t, day(2024, 2, 29), got[0].Date)
}

func TestExpand_Idempotent(t *testing.T) {
	def := definition()
	def.RecurringStart = ptr(day(2023, 3, 10))
	window := valueobject.Window{Start: day(2023, 1, 1), End: day(2024, 1, 1)}

	first := Expand(def, window)
	second := Expand(def, window)

	require.Len(t, first, 10)
	assert.Equal(t, first, second)
}

func TestExpand_Disjoint(t *testing.T) {
	tests := []struct {
		name   string
		start  *time.Time
		end    *time.Time
		window valueobject.Window
	}{
		{
			name:   "plan ends before window",
			start:  ptr(day(2022, 1, 5)),
			end:    ptr(day(2023, 1, 1)),
			window: valueobject.Window{Start: day(2023, 1, 1), End: day(2023, 2, 1)},
		},
		{
			name:   "plan starts after window",
			start:  ptr(day(2024, 1, 5)),
			window: valueobject.Window{Start: day(2023, 1, 1), End: day(2023, 2, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := definition()
			def.RecurringStart = tt.start
			def.RecurringEnd = tt.end
			assert.Empty(t, Expand(def, tt.window))
		})
	}
}

func TestExpand_PlanBoundsFilterOccurrences(t *testing.T) {
	def := definition()
	def.RecurringStart = ptr(day(2023, 2, 15))
	def.RecurringEnd = ptr(day(2023, 5, 15))

	got := Expand(def, valueobject.Window{Start: day(2023, 1, 1), End: day(2023, 12, 1)})

	// 2023-05-15 is excluded because the plan end is exclusive.
	assert.Equal(t, []time.Time{day(2023, 2, 15), day(2023, 3, 15), day(2023, 4, 15)},
		[]time.Time{got[0].Date, got[1].Date, got[2].Date})
	assert.Len(t, got, 3)
}

func TestExpand_BillingMonthOverridesStartDay(t *testing.T) {
	def := definition()
	def.RecurringStart = ptr(day(2023, 1, 3))
	def.BillingMonth = ptr(day(2023, 1, 20))

	got := Expand(def, valueobject.Window{Start: day(2023, 1, 1), End: day(2023, 3, 1)})

	assert.Equal(t, []int{20, 20}, occurrenceDays(got))
}

func TestExpand_WindowCutsPartialMonths(t *testing.T) {
	def := definition()
	def.RecurringStart = ptr(day(2023, 1, 10))

	got := Expand(def, valueobject.Window{Start: day(2023, 3, 12), End: day(2023, 5, 10)})

	// March 10 is before the window start, May 10 is at the exclusive end.
	require.Len(t, got, 1)
	assert.Equal(t, day(2023, 4, 10), got[0].Date)
}

func TestExpand_NonMonthlyAndNonRecurring(t *testing.T) {
	window := valueobject.Window{Start: day(2023, 1, 1), End: day(2024, 1, 1)}

	yearly := definition()
	yearly.RecurringCycle = ptr(entity.RecurringCycleYearly)
	assert.Empty(t, Expand(yearly, window))

	plain := definition()
	plain.IsRecurring = false
	assert.Empty(t, Expand(plain, window))

	defaulted := definition()
	defaulted.RecurringCycle = nil
	assert.Len(t, Expand(defaulted, window), 12)
}

func TestExpandAll(t *testing.T) {
	a := definition()
	b := definition()
	b.ID = uuid.New()
	b.RecurringStart = ptr(day(2023, 6, 1))

	got := ExpandAll([]*entity.Expense{a, b}, valueobject.Window{Start: day(2023, 5, 1), End: day(2023, 8, 1)})

	assert.Len(t, got, 5)
}
