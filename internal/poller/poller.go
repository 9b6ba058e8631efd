// Package poller keeps a fresh metrics snapshot by polling the backend on a
// fixed interval and publishing Loading / Ready / Error states.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/bubbl-app/bubbl-metrics/internal/model"
)

const pollKey = "snapshot"

// ErrStarted is returned when Start is called more than once.
var ErrStarted = errors.New("poller: already started")

// Config controls the poll cadence.
type Config struct {
	Interval time.Duration // time between polls, DefaultPollInterval when zero
	Timeout  time.Duration // deadline for one poll, DefaultRequestTimeout when zero
}

// Observer is notified after every completed poll.
type Observer interface {
	ObservePoll(state model.PollState, elapsed time.Duration)
}

// Option configures a Poller.
type Option func(*Poller)

// WithLogger sets the poller logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Poller) { p.log = l }
}

// WithObserver registers an observer for completed polls.
func WithObserver(o Observer) Option {
	return func(p *Poller) { p.observer = o }
}

// WithTicker replaces the ticker used between polls.
func WithTicker(f TickerFactory) Option {
	return func(p *Poller) { p.newTicker = f }
}

// WithClock replaces the time source used to stamp states.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

// Poller owns the refresh loop. The zero value is not usable; call New.
type Poller struct {
	fetcher   model.SnapshotFetcher
	cfg       Config
	log       zerolog.Logger
	observer  Observer
	newTicker TickerFactory
	now       func() time.Time

	group   singleflight.Group
	refresh chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	state   model.PollState
	subs    map[int]chan model.PollState
	nextSub int
	started bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New returns a Poller in the Loading state.
func New(fetcher model.SnapshotFetcher, cfg Config, opts ...Option) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = model.DefaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = model.DefaultRequestTimeout
	}
	p := &Poller{
		fetcher:   fetcher,
		cfg:       cfg,
		log:       zerolog.Nop(),
		newTicker: newTimeTicker,
		now:       time.Now,
		refresh:   make(chan struct{}, 1),
		subs:      make(map[int]chan model.PollState),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state = model.Loading(p.now())
	return p
}

// Start polls immediately and then every Interval until ctx is done or Stop
// is called.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return ErrStarted
	}
	p.started = true
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.mu.Unlock()

	ticker := p.newTicker(p.cfg.Interval)
	go p.loop(ctx, ticker)
	return nil
}

func (p *Poller) loop(ctx context.Context, ticker Ticker) {
	defer close(p.done)
	defer ticker.Stop()

	p.log.Debug().Dur("interval", p.cfg.Interval).Msg("poller started")
	p.trigger(ctx)
	for {
		select {
		case <-ctx.Done():
			p.log.Debug().Msg("poller stopped")
			return
		case <-ticker.C():
			p.trigger(ctx)
		case <-p.refresh:
			p.trigger(ctx)
		}
	}
}

// trigger starts a poll, or joins the one already in flight.
func (p *Poller) trigger(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		var (
			leader bool
			start  time.Time
		)
		v, _, _ := p.group.Do(pollKey, func() (any, error) {
			leader = true
			start = p.now()
			p.publish(model.Loading(start))

			pctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
			defer cancel()
			snap, err := p.fetcher.GetAllMetrics(pctx)
			if err != nil {
				return model.Failed(err, p.now()), nil
			}
			return model.Ready(snap, p.now()), nil
		})
		if !leader {
			return
		}
		if ctx.Err() != nil {
			return
		}

		state := v.(model.PollState)
		elapsed := p.now().Sub(start)
		if state.Status == model.PollError {
			p.log.Warn().Str("error", state.Err).Dur("elapsed", elapsed).Msg("poll failed")
		} else {
			p.log.Debug().Dur("elapsed", elapsed).Msg("poll succeeded")
		}
		p.publish(state)
		if p.observer != nil {
			p.observer.ObservePoll(state, elapsed)
		}
	}()
}

// Refresh requests an immediate poll. It joins a poll already in flight and
// is a no-op before Start or after Stop.
func (p *Poller) Refresh() {
	p.mu.Lock()
	running := p.started && !p.stopped
	p.mu.Unlock()
	if !running {
		return
	}
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Stop cancels the loop and any in-flight poll, waits for them to exit and
// closes every subscription. Results arriving afterwards are discarded.
// Stop is idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	for id, ch := range p.subs {
		close(ch)
		delete(p.subs, id)
	}
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	p.wg.Wait()
}

// State returns a copy of the current state.
func (p *Poller) State() model.PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyState(p.state)
}

// Subscribe returns a channel receiving state changes, starting with the
// current state. Delivery never blocks the poller: a slow subscriber only
// sees the latest state. The channel is closed by cancel or Stop.
func (p *Poller) Subscribe() (<-chan model.PollState, func()) {
	ch := make(chan model.PollState, 1)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		close(ch)
		return ch, func() {}
	}
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	ch <- copyState(p.state)

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if sub, ok := p.subs[id]; ok {
				close(sub)
				delete(p.subs, id)
			}
		})
	}
}

func (p *Poller) publish(state model.PollState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.state = state
	for _, ch := range p.subs {
		deliverLatest(ch, copyState(state))
	}
}

// deliverLatest replaces any undelivered state with s. Callers hold p.mu,
// so they are the only sender.
func deliverLatest(ch chan model.PollState, s model.PollState) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}

func copyState(s model.PollState) model.PollState {
	if s.Snapshot != nil {
		snap := *s.Snapshot
		s.Snapshot = &snap
	}
	return s
}
