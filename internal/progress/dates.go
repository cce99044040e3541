package progress

import "time"

// DateLayout is the layout of every calendar date stored by the tracker.
const DateLayout = "2006-01-02"

// AdjacencyFunc reports whether prev and cur (prev being the more recent one)
// belong to the same streak.
type AdjacencyFunc func(prev, cur string) bool

// IsConsecutiveDay treats any two distinct dates as consecutive.
// Stored stats have always been computed this way; see IsCalendarConsecutive
// for the strict rule.
func IsConsecutiveDay(prev, cur string) bool {
	return prev != cur
}

// IsCalendarConsecutive reports whether cur is exactly one calendar day before prev.
// Unparseable dates are never consecutive.
func IsCalendarConsecutive(prev, cur string) bool {
	p, err := time.Parse(DateLayout, prev)
	if err != nil {
		return false
	}
	c, err := time.Parse(DateLayout, cur)
	if err != nil {
		return false
	}
	return p.AddDate(0, 0, -1).Equal(c)
}

// FormatDate renders t as a tracker date in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
