// Package valueobject contains domain value objects for the ledger.
package valueobject

import (
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"time"

	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

var (
	// Epoch is the open start of an unbounded window.
	Epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	// FarFuture is the open end of an unbounded window.
	FarFuture = time.Date(2999, time.December, 31, 0, 0, 0, 0, time.UTC)

	monthPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	datePattern  = regexp.MustCompile(`^(\d{4})-(\d{2})-\d{2}$`)
)

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the UTC calendar month containing t.
func YearMonthOf(t time.Time) YearMonth {
	u := t.UTC()
	return YearMonth{Year: u.Year(), Month: u.Month()}
}

// String renders the month as YYYY-MM.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Start returns midnight UTC on the first day of the month.
func (ym YearMonth) Start() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	return YearMonthOf(ym.Start().AddDate(0, 1, 0))
}

// Prev returns the preceding month.
func (ym YearMonth) Prev() YearMonth {
	return YearMonthOf(ym.Start().AddDate(0, -1, 0))
}

// DaysIn returns the number of days in the month.
func (ym YearMonth) DaysIn() int {
	return time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Day returns the given day of the month, clamped to the month's last day.
func (ym YearMonth) Day(day int) time.Time {
	if last := ym.DaysIn(); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(ym.Year, ym.Month, day, 0, 0, 0, 0, time.UTC)
}

// Range returns the month as a half-open window.
func (ym YearMonth) Range() Window {
	return Window{Start: ym.Start(), End: ym.Next().Start()}
}

// ParseYearMonth parses "YYYY-MM" or "YYYY-MM-DD"; the day is ignored.
func ParseYearMonth(value string) (YearMonth, error) {
	var m []string
	if m = monthPattern.FindStringSubmatch(value); m == nil {
		m = datePattern.FindStringSubmatch(value)
	}
	if m == nil {
		return YearMonth{}, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidMonthFormat,
			"Invalid month format. Use YYYY-MM or YYYY-MM-DD.",
			domainerror.ErrInvalidMonthFormat,
		)
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return YearMonth{}, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidMonth,
			"Invalid month",
			domainerror.ErrInvalidMonth,
		)
	}

	return YearMonth{Year: year, Month: time.Month(month)}, nil
}

// ParseMonthRange returns [first of month, first of next month) in UTC.
func ParseMonthRange(value string) (Window, error) {
	ym, err := ParseYearMonth(value)
	if err != nil {
		return Window{}, err
	}
	return ym.Range(), nil
}

// MonthsBetween yields every month from from's month while the month
// starts before until. The sequence can be ranged over any number of times.
func MonthsBetween(from, until time.Time) iter.Seq[YearMonth] {
	first := YearMonthOf(from)
	return func(yield func(YearMonth) bool) {
		for ym := first; ym.Start().Before(until); ym = ym.Next() {
			if !yield(ym) {
				return
			}
		}
	}
}
