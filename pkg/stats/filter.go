package stats

import "time"

// Window is an inclusive date window. A zero Start or End leaves that side
// unbounded; the zero Window matches every date.
type Window struct {
	Start time.Time
	End   time.Time
}

// RangeWindow builds a window from inclusive start and end dates.
func RangeWindow(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

// MonthWindow builds a window covering one calendar month.
func MonthWindow(year int, month time.Month, loc *time.Location) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 1, -1)}
}

// AllTime returns the unbounded window.
func AllTime() Window {
	return Window{}
}

// Contains reports whether the date falls inside the window.
func (w Window) Contains(date time.Time) bool {
	if !w.Start.IsZero() && date.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && date.After(w.End) {
		return false
	}
	return true
}

// Filter returns the records whose date falls inside the window. The input
// is never mutated; an empty input yields an empty result. Filtering is
// idempotent: applying the same window to its own output is a no-op.
func Filter(records []Record, w Window) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// FilterRange keeps records with start <= date <= end.
func FilterRange(records []Record, start, end time.Time) []Record {
	return Filter(records, RangeWindow(start, end))
}

// FilterMonth keeps records within the given calendar month.
func FilterMonth(records []Record, year int, month time.Month, loc *time.Location) []Record {
	return Filter(records, MonthWindow(year, month, loc))
}
