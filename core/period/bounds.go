package period

import "time"

// StartOfDay returns 00:00:00.000 of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// DayBounds normalizes a date range to whole days: from is the start of
// start's day and to is the last millisecond of end's day.
// Every window-membership check must go through it.
func DayBounds(start, end time.Time) (from, to time.Time) {
	return StartOfDay(start), EndOfDay(end)
}

// Within reports whether t lies in [start 00:00:00.000, end 23:59:59.999].
func Within(t, start, end time.Time) bool {
	from, to := DayBounds(start, end)
	return !t.Before(from) && !t.After(to)
}
