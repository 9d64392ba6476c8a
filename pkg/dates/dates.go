// Package dates holds the calendar helpers shared by the aggregators.
//
// Dates are YYYY-MM-DD strings, so lexicographic and chronological order
// coincide. The reference date is always passed in; only callers at the
// outermost boundary read the clock (see Today).
package dates

import (
	"math"
	"time"
)

// Layout is the date format used throughout task data.
const Layout = "2006-01-02"

// Today formats now as a reference date in now's location.
func Today(now time.Time) string {
	return now.Format(Layout)
}

// IsOverdue reports whether date falls strictly before today.
// An item due today, or with no due date, is not overdue. The empty case is
// deliberate: a plain string comparison would put "" before every date.
func IsOverdue(date, today string) bool {
	return date != "" && date < today
}

// DaysBetween returns the whole-day difference end - start, rounded half up.
// It is negative when end precedes start, and 0 when either date does not
// parse.
func DaysBetween(start, end string) int {
	a, err := parseLenient(start)
	if err != nil {
		return 0
	}
	b, err := parseLenient(end)
	if err != nil {
		return 0
	}
	days := b.Sub(a).Hours() / 24
	return int(math.Floor(days + 0.5))
}

// InRange reports whether from <= date <= to. An empty bound is open.
func InRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

// Valid reports whether s is exactly a YYYY-MM-DD date. Anything longer is
// rejected so that string comparison against other dates stays chronological.
func Valid(s string) bool {
	if len(s) != len(Layout) {
		return false
	}
	_, err := time.Parse(Layout, s)
	return err == nil
}

// parseLenient reads the date part of s, ignoring any time suffix.
func parseLenient(s string) (time.Time, error) {
	if len(s) > len(Layout) {
		s = s[:len(Layout)]
	}
	return time.Parse(Layout, s)
}
