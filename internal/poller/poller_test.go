package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bubbl-app/bubbl-metrics/internal/model"
)

const waitFor = 2 * time.Second

// fakeTicker is driven by the test through tick.
type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

// tick delivers one tick, reporting false if nothing received it.
func (f *fakeTicker) tick() bool {
	select {
	case f.ch <- time.Now():
		return true
	case <-time.After(100 * time.Millisecond):
		return false
	}
}

func newFakeTicker() (*fakeTicker, TickerFactory) {
	ft := &fakeTicker{ch: make(chan time.Time)}
	return ft, func(time.Duration) Ticker { return ft }
}

// scriptedFetcher returns queued results in order, repeating the last one.
type scriptedFetcher struct {
	mu      sync.Mutex
	calls   atomic.Int64
	results []fetchResult
	gate    chan struct{} // when set, each call waits for a value or ctx
}

type fetchResult struct {
	snap model.MetricsSnapshot
	err  error
}

func (f *scriptedFetcher) GetAllMetrics(ctx context.Context) (model.MetricsSnapshot, error) {
	n := f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return model.MetricsSnapshot{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.results) == 0 {
		return model.MetricsSnapshot{TotalUsers: n}, nil
	}
	i := int(n) - 1
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i].snap, f.results[i].err
}

type recordingObserver struct {
	mu     sync.Mutex
	states []model.PollState
}

func (o *recordingObserver) ObservePoll(s model.PollState, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states = append(o.states, s)
}

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.states)
}

func TestNew_InitialStateIsLoading(t *testing.T) {
	p := New(&scriptedFetcher{}, Config{})
	assert.Equal(t, model.PollLoading, p.State().Status)
	assert.Equal(t, model.DefaultPollInterval, p.cfg.Interval)
	assert.Equal(t, model.DefaultRequestTimeout, p.cfg.Timeout)
}

func TestPoller_PollsAtStartAndOncePerTick(t *testing.T) {
	fetcher := &scriptedFetcher{}
	obs := &recordingObserver{}
	ft, factory := newFakeTicker()
	p := New(fetcher, Config{Interval: 30 * time.Second}, WithTicker(factory), WithObserver(obs))

	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return obs.count() == 1 }, waitFor, time.Millisecond)
	assert.Equal(t, int64(1), fetcher.calls.Load())

	for want := 2; want <= 4; want++ {
		require.True(t, ft.tick())
		require.Eventually(t, func() bool { return obs.count() == want }, waitFor, time.Millisecond)
		assert.Equal(t, int64(want), fetcher.calls.Load())
	}

	p.Stop()
	assert.True(t, ft.stopped.Load())
	assert.False(t, ft.tick(), "no one should receive ticks after Stop")
	assert.Equal(t, int64(4), fetcher.calls.Load())
}

func TestPoller_ReadyThenErrorDropsSnapshot(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{
		{snap: model.MetricsSnapshot{TotalUsers: 5, UserRetention: 50}},
		{err: errors.New("Failed to fetch total groups (HTTP 500)")},
	}}
	obs := &recordingObserver{}
	ft, factory := newFakeTicker()
	p := New(fetcher, Config{}, WithTicker(factory), WithObserver(obs))
	defer p.Stop()

	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return obs.count() == 1 }, waitFor, time.Millisecond)

	st := p.State()
	require.True(t, st.IsReady())
	assert.Equal(t, int64(5), st.Snapshot.TotalUsers)

	require.True(t, ft.tick())
	require.Eventually(t, func() bool { return obs.count() == 2 }, waitFor, time.Millisecond)

	st = p.State()
	assert.Equal(t, model.PollError, st.Status)
	assert.Nil(t, st.Snapshot)
	assert.Equal(t, "Failed to fetch total groups (HTTP 500)", st.Err)
}

func TestPoller_SubscribeSeesLoadingThenResult(t *testing.T) {
	fetcher := &scriptedFetcher{gate: make(chan struct{})}
	_, factory := newFakeTicker()
	p := New(fetcher, Config{}, WithTicker(factory))
	defer p.Stop()

	ch, cancel := p.Subscribe()
	defer cancel()

	first := <-ch
	assert.Equal(t, model.PollLoading, first.Status)

	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, waitFor, time.Millisecond)
	fetcher.gate <- struct{}{}

	require.Eventually(t, func() bool {
		select {
		case s := <-ch:
			return s.IsReady()
		default:
			return false
		}
	}, waitFor, time.Millisecond)
}

func TestPoller_RefreshJoinsInFlightPoll(t *testing.T) {
	fetcher := &scriptedFetcher{gate: make(chan struct{})}
	obs := &recordingObserver{}
	ft, factory := newFakeTicker()
	p := New(fetcher, Config{}, WithTicker(factory), WithObserver(obs))
	defer p.Stop()

	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, waitFor, time.Millisecond)

	p.Refresh()
	require.True(t, ft.tick())
	p.Refresh()
	time.Sleep(50 * time.Millisecond)

	close(fetcher.gate)
	require.Eventually(t, func() bool { return p.State().IsReady() }, waitFor, time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int64(1), fetcher.calls.Load())
	assert.Equal(t, 1, obs.count())
}

func TestPoller_RefreshStartsNewPollWhenIdle(t *testing.T) {
	fetcher := &scriptedFetcher{}
	obs := &recordingObserver{}
	_, factory := newFakeTicker()
	p := New(fetcher, Config{}, WithTicker(factory), WithObserver(obs))
	defer p.Stop()

	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return obs.count() == 1 }, waitFor, time.Millisecond)

	p.Refresh()
	require.Eventually(t, func() bool { return obs.count() == 2 }, waitFor, time.Millisecond)
	assert.Equal(t, int64(2), p.State().Snapshot.TotalUsers)
}

func TestPoller_RefreshBeforeStartIsIgnored(t *testing.T) {
	fetcher := &scriptedFetcher{}
	obs := &recordingObserver{}
	_, factory := newFakeTicker()
	p := New(fetcher, Config{}, WithTicker(factory), WithObserver(obs))
	defer p.Stop()

	p.Refresh()
	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return obs.count() == 1 }, waitFor, time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int64(1), fetcher.calls.Load())
	assert.Equal(t, 1, obs.count())
}

func TestPoller_RefreshAfterStopIsIgnored(t *testing.T) {
	fetcher := &scriptedFetcher{}
	_, factory := newFakeTicker()
	p := New(fetcher, Config{}, WithTicker(factory))

	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, waitFor, time.Millisecond)
	p.Stop()

	p.Refresh()
	assert.Empty(t, p.refresh)
	assert.Equal(t, int64(1), fetcher.calls.Load())
}

func TestPoller_PollTimeout(t *testing.T) {
	fetcher := &scriptedFetcher{gate: make(chan struct{})}
	obs := &recordingObserver{}
	_, factory := newFakeTicker()
	p := New(fetcher, Config{Timeout: 20 * time.Millisecond}, WithTicker(factory), WithObserver(obs))
	defer p.Stop()

	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return obs.count() == 1 }, waitFor, time.Millisecond)

	st := p.State()
	assert.Equal(t, model.PollError, st.Status)
	assert.Contains(t, st.Err, context.DeadlineExceeded.Error())
}

func TestPoller_StopDiscardsInFlightResult(t *testing.T) {
	fetcher := &scriptedFetcher{gate: make(chan struct{})}
	obs := &recordingObserver{}
	_, factory := newFakeTicker()
	p := New(fetcher, Config{}, WithTicker(factory), WithObserver(obs))

	ch, _ := p.Subscribe()
	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, waitFor, time.Millisecond)

	p.Stop()
	p.Stop()

	assert.Equal(t, model.PollLoading, p.State().Status)
	assert.Zero(t, obs.count())

	for range ch {
	}
	_, ok := <-ch
	assert.False(t, ok, "subscription must be closed by Stop")
}

func TestPoller_StartTwice(t *testing.T) {
	_, factory := newFakeTicker()
	p := New(&scriptedFetcher{}, Config{}, WithTicker(factory))
	defer p.Stop()

	require.NoError(t, p.Start(context.Background()))
	assert.ErrorIs(t, p.Start(context.Background()), ErrStarted)
}

func TestPoller_StopBeforeStart(t *testing.T) {
	p := New(&scriptedFetcher{}, Config{})
	p.Stop()
	assert.ErrorIs(t, p.Start(context.Background()), ErrStarted)

	ch, cancel := p.Subscribe()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	p := New(&scriptedFetcher{}, Config{})
	ch, cancel := p.Subscribe()
	<-ch
	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	p.Stop()
}

func TestDeliverLatest_KeepsNewest(t *testing.T) {
	ch := make(chan model.PollState, 1)
	deliverLatest(ch, model.Loading(time.Now()))
	deliverLatest(ch, model.Failed(errors.New("x"), time.Now()))
	deliverLatest(ch, model.Ready(model.MetricsSnapshot{TotalUsers: 3}, time.Now()))

	got := <-ch
	assert.True(t, got.IsReady())
	assert.Equal(t, int64(3), got.Snapshot.TotalUsers)
}
