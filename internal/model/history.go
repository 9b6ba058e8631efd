package model

import (
	"sort"
	"time"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// MessageHistory maps a YYYY-MM-DD day to its message count.
type MessageHistory map[string]int64

// Series returns the history as points ordered by day. Keys are sorted
// lexicographically, which is chronological for YYYY-MM-DD strings.
// Keys that do not parse as dates keep a zero Date.
func (h MessageHistory) Series() []MessageCountPoint {
	days := make([]string, 0, len(h))
	for day := range h {
		days = append(days, day)
	}
	sort.Strings(days)

	points := make([]MessageCountPoint, 0, len(days))
	for _, day := range days {
		date, _ := ParseDate(day)
		points = append(points, MessageCountPoint{Day: day, Date: date, Count: h[day]})
	}
	return points
}

// DateWindow returns the [now-days, now] window in UTC calendar days.
func DateWindow(days int, now time.Time) (start, end time.Time) {
	end = now.UTC()
	start = end.AddDate(0, 0, -days)
	return start, end
}

// FormatDate renders t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate accepts a plain calendar date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
