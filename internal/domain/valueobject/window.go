package valueobject

import (
	"time"
)

// DefaultTimezoneOffsetMinutes is UTC+8.
const DefaultTimezoneOffsetMinutes = 480

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// UnboundedWindow spans Epoch to FarFuture.
func UnboundedWindow() Window {
	return Window{Start: Epoch, End: FarFuture}
}

// Contains reports whether t lies inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Overlaps reports whether the two windows share any instant.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// straddles reports whether boundary lies strictly inside the window.
func (w Window) straddles(boundary time.Time) bool {
	return w.Start.Before(boundary) && w.End.After(boundary)
}

// ResolveTimezoneOffset returns the supplied offset in minutes, or fallback when absent.
func ResolveTimezoneOffset(offset *int, fallback int) int {
	if offset != nil {
		return *offset
	}
	return fallback
}

// StartOfLocalDayUTC returns local midnight of now's local day, expressed in UTC.
// The offset is fixed; no DST rules apply.
func StartOfLocalDayUTC(now time.Time, offsetMinutes int) time.Time {
	shift := time.Duration(offsetMinutes) * time.Minute
	local := now.UTC().Add(shift)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Add(-shift)
}

// StartOfTomorrowLocalUTC returns the start of the next local day, expressed in UTC.
func StartOfTomorrowLocalUTC(now time.Time, offsetMinutes int) time.Time {
	return StartOfLocalDayUTC(now, offsetMinutes).Add(24 * time.Hour)
}

// ReconciledWindow holds the effective windows for stored rows and projected occurrences.
type ReconciledWindow struct {
	Normal    Window
	Recurring Window
}

// Reconcile clamps a query window against the local "now".
// Stored rows stay visible through the end of the local day, projected
// occurrences only through the start of it. Windows that do not straddle
// the boundary are returned untouched.
func Reconcile(window Window, now time.Time, offsetMinutes int) ReconciledWindow {
	result := ReconciledWindow{Normal: window, Recurring: window}

	if tomorrow := StartOfTomorrowLocalUTC(now, offsetMinutes); window.straddles(tomorrow) {
		result.Normal.End = tomorrow
	}
	if today := StartOfLocalDayUTC(now, offsetMinutes); window.straddles(today) {
		result.Recurring.End = today
	}

	return result
}
