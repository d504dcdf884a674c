package expense

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// sortEntries orders entries newest first: date, then creation time, then key.
func sortEntries(entries []entity.Entry) {
	slices.SortStableFunc(entries, func(a, b entity.Entry) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Key(), b.Key())
	})
}

func wrapRows(rows []*entity.Expense) []entity.Entry {
	entries := make([]entity.Entry, len(rows))
	for i, row := range rows {
		entries[i] = entity.EntryFromExpense(row)
	}
	return entries
}

// sumEntries totals entries of the given type, skipping excluded channels.
func sumEntries(entries []entity.Entry, t entity.ExpenseType, excluded func(entity.Channel) bool) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Type != t {
			continue
		}
		if excluded != nil && excluded(e.Channel) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

// normalizePage clamps page and limit into the accepted range.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
