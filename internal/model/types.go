package model

import "time"

// MetricsSnapshot is one complete, internally consistent set of aggregate
// metric values. It is only ever built from a fully successful aggregate and
// is replaced wholesale by the next one.
type MetricsSnapshot struct {
	TotalUsers    int64
	ActiveUsers   int64   // within the active window (7 days by default)
	UserRetention float64 // percentage, 0-100
	TotalGroups   int64
	ActiveGroups  int64
	TotalMessages int64
	DailyMessages int64
	FetchedAt     time.Time
}

// UserActivityPoint is one daily bucket of the user activity series.
type UserActivityPoint struct {
	Date        time.Time
	ActiveUsers int64
	NewUsers    int64
}

// UserActivitySeries is the ordered result of a date-range query.
// An empty series is a valid "no data for period" result.
type UserActivitySeries struct {
	Metrics []UserActivityPoint
}

// Empty reports whether the range contained no daily buckets.
func (s UserActivitySeries) Empty() bool {
	return len(s.Metrics) == 0
}

// MessageCountPoint is one day of message history.
type MessageCountPoint struct {
	Day   string // YYYY-MM-DD, as keyed by the backend
	Date  time.Time
	Count int64
}

// SheetResult is returned by the sheet regeneration actions.
type SheetResult struct {
	SheetURL string // empty when the backend did not return a link
}

// MarkPaidRequest identifies an ambassador payout to record.
type MarkPaidRequest struct {
	Phone string `validate:"required,startswith=+,min=10"`
	Note  string `validate:"max=500"`
}
