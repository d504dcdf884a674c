// Package recurrence projects recurring definitions onto concrete dated occurrences.
package recurrence

import (
	"github.com/expense-tracker/backend/internal/domain/entity"
	"github.com/expense-tracker/backend/internal/domain/valueobject"
)

// PlanWindow returns the active interval of a definition.
// A missing start means the epoch and a missing end means the far future.
func PlanWindow(def *entity.Expense) valueobject.Window {
	plan := valueobject.UnboundedWindow()
	if def.RecurringStart != nil {
		plan.Start = *def.RecurringStart
	}
	if def.RecurringEnd != nil {
		plan.End = *def.RecurringEnd
	}
	return plan
}

// AnchorDay returns the day of month occurrences are placed on.
func AnchorDay(def *entity.Expense) int {
	switch {
	case def.BillingMonth != nil:
		return def.BillingMonth.UTC().Day()
	case def.RecurringStart != nil:
		return def.RecurringStart.UTC().Day()
	default:
		return 1
	}
}

// Expand returns the occurrences of def that fall inside window.
// Only monthly definitions produce occurrences.
func Expand(def *entity.Expense, window valueobject.Window) []entity.Entry {
	if def == nil || !def.IsRecurring || def.Cycle() != entity.RecurringCycleMonthly {
		return nil
	}

	plan := PlanWindow(def)
	if !plan.Overlaps(window) {
		return nil
	}

	from := window.Start
	if plan.Start.After(from) {
		from = plan.Start
	}
	anchor := AnchorDay(def)

	var occurrences []entity.Entry
	for ym := range valueobject.MonthsBetween(from, window.End) {
		date := ym.Day(anchor)
		if !window.Contains(date) || !plan.Contains(date) {
			continue
		}

		occ := entity.Entry{
			Expense:    *def,
			Occurrence: &valueobject.OccurrenceID{DefinitionID: def.ID, Month: ym},
		}
		occ.Date = date
		occurrences = append(occurrences, occ)
	}

	return occurrences
}

// ExpandAll expands every definition over window.
func ExpandAll(defs []*entity.Expense, window valueobject.Window) []entity.Entry {
	var out []entity.Entry
	for _, def := range defs {
		out = append(out, Expand(def, window)...)
	}
	return out
}
