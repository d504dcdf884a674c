package expense

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

type fakeRepo struct {
	mu      sync.Mutex
	rows    []*entity.Expense
	failSum error
}

func (r *fakeRepo) Create(_ context.Context, e *entity.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, domainerror.ErrExpenseNotFound
}

func (r *fakeRepo) Update(_ context.Context, e *entity.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.ID == e.ID {
			cp := *e
			r.rows[i] = &cp
			return nil
		}
	}
	return domainerror.ErrExpenseNotFound
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = slices.DeleteFunc(r.rows, func(row *entity.Expense) bool { return row.ID == id })
	return nil
}

func (r *fakeRepo) match(row *entity.Expense, f adapter.ExpenseFilter, dated bool) bool {
	if f.Currency != nil && row.Currency != *f.Currency {
		return false
	}
	if f.Category != nil && row.Category != *f.Category {
		return false
	}
	if f.Channel != nil && row.Channel != *f.Channel {
		return false
	}
	if f.Type != nil && row.Type != *f.Type {
		return false
	}
	if slices.Contains(f.ExcludeChannels, row.Channel) {
		return false
	}
	if f.IsRecurring != nil && row.IsRecurring != *f.IsRecurring {
		return false
	}
	if dated && f.From != nil && row.Date.Before(*f.From) {
		return false
	}
	if dated && f.To != nil && !row.Date.Before(*f.To) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		hit := strings.Contains(strings.ToLower(row.Title), q) ||
			strings.Contains(strings.ToLower(row.NotesText()), q) ||
			strings.Contains(strings.ToLower(string(row.Category)), q) ||
			strings.Contains(strings.ToLower(string(row.Channel)), q)
		if !hit {
			return false
		}
	}
	return true
}

func (r *fakeRepo) filtered(f adapter.ExpenseFilter, dated bool) []*entity.Expense {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Expense
	for _, row := range r.rows {
		if r.match(row, f, dated) {
			out = append(out, row)
		}
	}
	slices.SortStableFunc(out, func(a, b *entity.Expense) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func (r *fakeRepo) Find(_ context.Context, f adapter.ExpenseFilter, p *adapter.ExpensePagination) ([]*entity.Expense, error) {
	out := r.filtered(f, true)
	if p == nil {
		return out, nil
	}
	from := min(p.Offset(), len(out))
	to := min(from+p.Limit, len(out))
	return out[from:to], nil
}

func (r *fakeRepo) Count(_ context.Context, f adapter.ExpenseFilter) (int64, error) {
	return int64(len(r.filtered(f, true))), nil
}

func (r *fakeRepo) SumAmount(_ context.Context, f adapter.ExpenseFilter) (decimal.Decimal, error) {
	if r.failSum != nil {
		return decimal.Zero, r.failSum
	}
	total := decimal.Zero
	for _, row := range r.filtered(f, true) {
		total = total.Add(row.Amount)
	}
	return total, nil
}

func (r *fakeRepo) FindDefinitions(_ context.Context, f adapter.ExpenseFilter) ([]*entity.Expense, error) {
	yes := true
	f.IsRecurring = &yes
	return r.filtered(f, false), nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type recordingPublisher struct {
	events []adapter.ExpenseChangedEvent
	err    error
}

func (p *recordingPublisher) PublishExpenseChanged(_ context.Context, e adapter.ExpenseChangedEvent) error {
	p.events = append(p.events, e)
	return p.err
}

var errBoom = errors.New("boom")

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

var seq int

// row builds a stored record; created times increase with every call.
func row(title string, amount int64, date time.Time, t entity.ExpenseType, ch entity.Channel, cat entity.Category) *entity.Expense {
	seq++
	e := entity.NewExpense(title, decimal.NewFromInt(amount), date, t, entity.CurrencyMYR, ch, cat)
	e.CreatedAt = day(2020, 1, 1).Add(time.Duration(seq) * time.Minute)
	return e
}

func recurringDef(title string, amount int64, start time.Time, t entity.ExpenseType, ch entity.Channel, cat entity.Category) *entity.Expense {
	e := row(title, amount, start, t, ch, cat)
	e.IsRecurring = true
	e.RecurringStart = ptr(start)
	e.RecurringCycle = ptr(entity.RecurringCycleMonthly)
	return e
}
