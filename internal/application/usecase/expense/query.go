package expense

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// DateLayout is the calendar date format accepted and rendered by the API.
const DateLayout = "2006-01-02"

// ParseDate parses an optional YYYY-MM-DD (or RFC 3339) query value.
func ParseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		d := time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
		return &d, nil
	}
	return nil, domainerror.NewLedgerError(
		domainerror.ErrCodeInvalidDateWindow,
		field+" must be a date in YYYY-MM-DD format",
		domainerror.ErrInvalidDateWindow,
	)
}

// ParseTimezoneOffset parses an optional offset in minutes.
func ParseTimezoneOffset(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < -14*60 || n > 14*60 {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidTimezoneOffset,
			"tzOffsetMinutes must be a whole number of minutes between -840 and 840",
			domainerror.ErrInvalidTimezoneOffset,
		)
	}
	return &n, nil
}

// ParseCurrency parses an optional currency filter.
func ParseCurrency(value string) (*entity.Currency, error) {
	if value == "" {
		return nil, nil
	}
	c := entity.Currency(value)
	if !c.IsValid() {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidLedgerCurrency,
			"currency must be one of MYR, INR",
			domainerror.ErrInvalidCurrency,
		)
	}
	return &c, nil
}

// ParseCategory parses an optional category filter.
func ParseCategory(value string) (*entity.Category, error) {
	if value == "" {
		return nil, nil
	}
	c := entity.Category(value)
	if !c.IsValid() {
		return nil, invalidFilter("category", value)
	}
	return &c, nil
}

// ParseChannel parses an optional channel filter.
func ParseChannel(value string) (*entity.Channel, error) {
	if value == "" {
		return nil, nil
	}
	ch := entity.Channel(value)
	if !ch.IsValid() {
		return nil, invalidFilter("channel", value)
	}
	return &ch, nil
}

// ParseExpenseType parses an optional type filter.
func ParseExpenseType(value string) (*entity.ExpenseType, error) {
	if value == "" {
		return nil, nil
	}
	t := entity.ExpenseType(value)
	if !t.IsValid() {
		return nil, invalidFilter("type", value)
	}
	return &t, nil
}

func invalidFilter(field, value string) error {
	return domainerror.NewLedgerError(
		domainerror.ErrCodeInvalidLedgerFilter,
		fmt.Sprintf("unknown %s %q", field, value),
		domainerror.ErrInvalidFilter,
	)
}

// dateWindow turns inclusive calendar bounds into a half-open window.
// Missing bounds are open.
func dateWindow(start, end *time.Time) (valueobject.Window, error) {
	w := valueobject.UnboundedWindow()
	if start != nil {
		w.Start = *start
	}
	if end != nil {
		w.End = end.AddDate(0, 0, 1)
	}
	if !w.Start.Before(w.End) {
		return valueobject.Window{}, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidDateWindow,
			"start must not be after end",
			domainerror.ErrInvalidDateWindow,
		)
	}
	return w, nil
}
