package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bubbl-app/bubbl-metrics/internal/apiclient"
	"github.com/bubbl-app/bubbl-metrics/internal/model"
)

// fakeBackend serves canned JSON per path and records every request.
type fakeBackend struct {
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []*http.Request
	bodies   map[string][]byte
	hits     atomic.Int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		routes: make(map[string]http.HandlerFunc),
		bodies: make(map[string][]byte),
	}
}

func (f *fakeBackend) json(path string, v any) {
	f.routes[path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
}

func (f *fakeBackend) status(path string, code int) {
	f.routes[path] = func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", code)
	}
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.bodies[r.URL.Path] = body
	f.mu.Unlock()

	h, ok := f.routes[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (f *fakeBackend) lastRequest(path string) *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].URL.Path == path {
			return f.requests[i]
		}
	}
	return nil
}

func (f *fakeBackend) allMetrics() {
	f.json("/metrics/users/total", map[string]any{"total_users": 1200})
	f.json("/metrics/users/active", map[string]any{"active_users": 340})
	f.json("/metrics/users/retention", map[string]any{"retention_rate": 42.5})
	f.json("/metrics/groups/total", map[string]any{"total_groups": 88})
	f.json("/metrics/groups/active", map[string]any{"active_groups": 31})
	f.json("/metrics/messages/total", map[string]any{"total_messages": 98765})
	f.json("/metrics/messages/daily", map[string]any{"daily_messages": 432})
}

func newTestClient(t *testing.T, backend http.Handler, opts ...apiclient.Option) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	c, err := apiclient.New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "ftp://example.com", "http://"} {
		_, err := apiclient.New(raw)
		assert.Error(t, err, raw)
	}

	c, err := apiclient.New("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
	assert.Equal(t, 7, c.ActiveDays())
}

func TestGetAllMetrics_MapsEveryField(t *testing.T) {
	backend := newFakeBackend()
	backend.allMetrics()
	c := newTestClient(t, backend)

	snap, err := c.GetAllMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1200), snap.TotalUsers)
	assert.Equal(t, int64(340), snap.ActiveUsers)
	assert.Equal(t, 42.5, snap.UserRetention)
	assert.Equal(t, int64(88), snap.TotalGroups)
	assert.Equal(t, int64(31), snap.ActiveGroups)
	assert.Equal(t, int64(98765), snap.TotalMessages)
	assert.Equal(t, int64(432), snap.DailyMessages)
	assert.False(t, snap.FetchedAt.IsZero())
	assert.Equal(t, int64(7), backend.hits.Load())
}

func TestGetAllMetrics_UsesActiveWindow(t *testing.T) {
	backend := newFakeBackend()
	backend.allMetrics()
	c := newTestClient(t, backend, apiclient.WithActiveDays(14))

	_, err := c.GetAllMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "14", backend.lastRequest("/metrics/users/active").URL.Query().Get("days"))
	assert.Equal(t, "14", backend.lastRequest("/metrics/groups/active").URL.Query().Get("days"))
}

func TestGetAllMetrics_OneFailureFailsAggregate(t *testing.T) {
	backend := newFakeBackend()
	backend.allMetrics()
	backend.status("/metrics/groups/total", http.StatusInternalServerError)
	c := newTestClient(t, backend)

	snap, err := c.GetAllMetrics(context.Background())
	require.Error(t, err)
	assert.Equal(t, model.MetricsSnapshot{}, snap)

	assert.True(t, apiclient.IsKind(err, apiclient.KindStatus))
	assert.Equal(t, http.StatusInternalServerError, apiclient.StatusCode(err))
	assert.Contains(t, err.Error(), "Failed to fetch total groups")
}

func TestGetAllMetrics_FirstFailureCancelsOthers(t *testing.T) {
	backend := newFakeBackend()
	backend.allMetrics()
	backend.status("/metrics/users/total", http.StatusBadGateway)

	release := make(chan struct{})
	defer close(release)
	slow := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}
	backend.routes["/metrics/messages/daily"] = slow

	c := newTestClient(t, backend)

	done := make(chan error, 1)
	go func() {
		_, err := c.GetAllMetrics(context.Background())
		done <- err
	}()

	select {
	case err := <-done:
		assert.Equal(t, http.StatusBadGateway, apiclient.StatusCode(err))
	case <-time.After(5 * time.Second):
		t.Fatal("GetAllMetrics did not return after the first failure")
	}
}

func TestGetAllMetrics_DecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		path string
		body any
	}{
		{"missing field", "/metrics/users/total", map[string]any{"users": 3}},
		{"negative count", "/metrics/messages/daily", map[string]any{"daily_messages": -1}},
		{"retention above range", "/metrics/users/retention", map[string]any{"retention_rate": 120.0}},
		{"wrong type", "/metrics/groups/active", map[string]any{"active_groups": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			backend.allMetrics()
			backend.json(tt.path, tt.body)
			c := newTestClient(t, backend)

			_, err := c.GetAllMetrics(context.Background())
			require.Error(t, err)
			assert.True(t, apiclient.IsKind(err, apiclient.KindDecode), "got %v", err)
			assert.Zero(t, apiclient.StatusCode(err))
		})
	}
}

func TestRequest_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := apiclient.New(url)
	require.NoError(t, err)

	_, err = c.GetTotalUsers(context.Background())
	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, apiclient.KindTransport))
	assert.Contains(t, err.Error(), "Failed to fetch total users")
}

func TestRequest_Timeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	c := newTestClient(t, backend, apiclient.WithTimeout(50*time.Millisecond))

	_, err := c.GetDailyMessages(context.Background())
	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, apiclient.KindTransport))
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestGetMetricsByDateRange(t *testing.T) {
	backend := newFakeBackend()
	backend.json("/metrics/by-date-range", map[string]any{
		"metrics": []map[string]any{
			{"date": "2024-01-01", "active_users": 10, "new_users": 2},
			{"date": "2024-01-02T00:00:00Z", "active_users": 12, "new_users": 3},
		},
	})
	c := newTestClient(t, backend)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	series, err := c.GetMetricsByDateRange(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, series.Metrics, 2)

	assert.Equal(t, int64(12), series.Metrics[1].ActiveUsers)
	assert.Equal(t, int64(3), series.Metrics[1].NewUsers)
	assert.Equal(t, 2, series.Metrics[1].Date.Day())

	q := backend.lastRequest("/metrics/by-date-range").URL.Query()
	assert.Equal(t, "2024-01-01", q.Get("start_date"))
	assert.Equal(t, "2024-01-31", q.Get("end_date"))
}

func TestGetMetricsByDateRange_EmptyIsNotAnError(t *testing.T) {
	backend := newFakeBackend()
	backend.json("/metrics/by-date-range", map[string]any{"metrics": []any{}})
	c := newTestClient(t, backend)

	series, err := c.GetMetricsByDateRange(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	assert.True(t, series.Empty())
}

func TestGetMetricsByDateRange_BadDate(t *testing.T) {
	backend := newFakeBackend()
	backend.json("/metrics/by-date-range", map[string]any{
		"metrics": []map[string]any{{"date": "yesterday", "active_users": 1, "new_users": 1}},
	})
	c := newTestClient(t, backend)

	_, err := c.GetMetricsByDateRange(context.Background(), time.Now(), time.Now())
	assert.True(t, apiclient.IsKind(err, apiclient.KindDecode))
}

func TestGetMessageHistory_SortedSeries(t *testing.T) {
	backend := newFakeBackend()
	backend.json("/metrics/messages/history", map[string]any{
		"daily_message_history": map[string]int{"2024-01-02": 5, "2024-01-01": 3},
	})
	c := newTestClient(t, backend)

	history, err := c.GetMessageHistory(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, "30", backend.lastRequest("/metrics/messages/history").URL.Query().Get("days"))

	series := history.Series()
	require.Len(t, series, 2)
	assert.Equal(t, "2024-01-01", series[0].Day)
	assert.Equal(t, int64(3), series[0].Count)
	assert.Equal(t, "2024-01-02", series[1].Day)
	assert.Equal(t, int64(5), series[1].Count)
}

func TestGetMessageHistory_FailureMessage(t *testing.T) {
	backend := newFakeBackend()
	backend.status("/metrics/messages/history", http.StatusServiceUnavailable)
	c := newTestClient(t, backend)

	_, err := c.GetMessageHistory(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch message history (HTTP 503)", err.Error())
}
