package entity

import (
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// Entry is a record as it takes part in a ledger query: either a stored
// row or an occurrence projected from a recurring definition.
type Entry struct {
	Expense
	Occurrence *valueobject.OccurrenceID
}

// EntryFromExpense wraps a stored row.
func EntryFromExpense(e *Expense) Entry {
	return Entry{Expense: *e}
}

// IsOccurrence reports whether the entry was projected from a definition.
func (e Entry) IsOccurrence() bool {
	return e.Occurrence != nil
}

// Key returns the entry's identifier as exposed to clients.
func (e Entry) Key() string {
	if e.Occurrence != nil {
		return e.Occurrence.String()
	}
	return e.ID.String()
}
