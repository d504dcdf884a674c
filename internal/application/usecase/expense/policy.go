// Package expense contains expense ledger use cases.
package expense

import (
	"slices"

	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

const (
	// DefaultPageSize is used when a list request carries no limit.
	DefaultPageSize = 20
	// MaxPageSize caps the limit of a list request.
	MaxPageSize = 100
)

// Policy selects between the manual-only and the recurring-aware ledger behaviour.
type Policy struct {
	// IncludeRecurring projects recurring definitions into queries. When false
	// definitions are treated like any other stored row.
	IncludeRecurring bool
	// ExcludedExpenseChannels are left out of the summary's expense total.
	ExcludedExpenseChannels []entity.Channel
	// DefaultTimezoneOffset is applied when a query carries no offset.
	DefaultTimezoneOffset int
}

// DefaultPolicy returns the recurring-aware policy excluding card swipes and e-wallet top-ups.
func DefaultPolicy() Policy {
	return Policy{
		IncludeRecurring:        true,
		ExcludedExpenseChannels: []entity.Channel{entity.ChannelCreditCard, entity.ChannelTNG},
		DefaultTimezoneOffset:   valueobject.DefaultTimezoneOffsetMinutes,
	}
}

// excludesChannel reports whether ch is left out of expense totals.
func (p Policy) excludesChannel(ch entity.Channel) bool {
	return slices.Contains(p.ExcludedExpenseChannels, ch)
}

// rowsFlag returns the IsRecurring constraint for stored-row queries.
// With recurring logic active, definitions are never aggregated by their own date.
func (p Policy) rowsFlag() *bool {
	if !p.IncludeRecurring {
		return nil
	}
	f := false
	return &f
}
