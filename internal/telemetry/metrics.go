// Package telemetry exports poll health and the latest snapshot values as
// Prometheus metrics.
package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bubbl-app/bubbl-metrics/internal/model"
)

const (
	namespace   = "bubbl_metrics"
	resultLabel = "result"
	metricLabel = "metric"
)

// Metrics holds the dashboard's Prometheus collectors. It implements
// poller.Observer.
type Metrics struct {
	registry *prometheus.Registry

	pollsTotal          *prometheus.CounterVec
	pollDurationSeconds prometheus.Histogram
	lastSuccess         prometheus.Gauge
	up                  prometheus.Gauge
	snapshotValues      *prometheus.GaugeVec
	actionsTotal        *prometheus.CounterVec
}

// NewMetrics creates a registry with process and Go collectors plus the
// dashboard metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	return &Metrics{
		registry: reg,
		pollsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poll",
			Name:      "total",
			Help:      "The total count of completed polls by result.",
		}, []string{resultLabel}),
		pollDurationSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "poll",
			Name:      "duration_seconds",
			Help:      "The time taken to fetch one aggregate snapshot.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		lastSuccess: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "poll",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful poll.",
		}),
		up: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backend_up",
			Help:      "1 if the last poll succeeded, 0 otherwise.",
		}),
		snapshotValues: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "value",
			Help:      "The latest value of each dashboard counter.",
		}, []string{metricLabel}),
		actionsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rewards",
			Name:      "actions_total",
			Help:      "The total count of rewards actions by action and result.",
		}, []string{"action", resultLabel}),
	}, nil
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObservePoll records one completed poll.
func (m *Metrics) ObservePoll(state model.PollState, elapsed time.Duration) {
	m.pollDurationSeconds.Observe(elapsed.Seconds())

	if !state.IsReady() {
		m.pollsTotal.WithLabelValues("error").Inc()
		m.up.Set(0)
		return
	}

	m.pollsTotal.WithLabelValues("success").Inc()
	m.up.Set(1)
	m.lastSuccess.Set(float64(state.At.Unix()))

	s := state.Snapshot
	m.snapshotValues.WithLabelValues("total_users").Set(float64(s.TotalUsers))
	m.snapshotValues.WithLabelValues("active_users").Set(float64(s.ActiveUsers))
	m.snapshotValues.WithLabelValues("user_retention").Set(s.UserRetention)
	m.snapshotValues.WithLabelValues("total_groups").Set(float64(s.TotalGroups))
	m.snapshotValues.WithLabelValues("active_groups").Set(float64(s.ActiveGroups))
	m.snapshotValues.WithLabelValues("total_messages").Set(float64(s.TotalMessages))
	m.snapshotValues.WithLabelValues("daily_messages").Set(float64(s.DailyMessages))
}

// ObserveAction records the outcome of a rewards action.
func (m *Metrics) ObserveAction(action string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.actionsTotal.WithLabelValues(action, result).Inc()
}
