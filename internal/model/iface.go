package model

import (
	"context"
	"time"
)

// SnapshotFetcher produces one aggregate snapshot per call.
type SnapshotFetcher interface {
	GetAllMetrics(ctx context.Context) (MetricsSnapshot, error)
}

// HistoryReader provides the daily time-series queries used by charts.
type HistoryReader interface {
	GetMetricsByDateRange(ctx context.Context, start, end time.Time) (UserActivitySeries, error)
	GetMessageHistory(ctx context.Context, days int) (MessageHistory, error)
}

// MetricsReader is the unified read contract of the metrics backend.
type MetricsReader interface {
	SnapshotFetcher
	HistoryReader
}

// RewardsActions are the administrative, user-triggered side effects.
// None of them are idempotent.
type RewardsActions interface {
	GenerateRewardsCSV(ctx context.Context) ([]byte, error)
	UpdateGoogleSheet(ctx context.Context) (SheetResult, error)
	UpdatePublicGoogleSheet(ctx context.Context) (SheetResult, error)
	MarkAmbassadorPaid(ctx context.Context, phone, note string) error
}

// Backend is everything the dashboard needs from the metrics service.
type Backend interface {
	MetricsReader
	RewardsActions
}
