package tui

import (
	"context"
	"sync"
	"time"

	"github.com/bubbl-app/bubbl-metrics/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type fakePoll struct {
	state        model.PollState
	ch           chan model.PollState
	refreshCalls int
	cancelled    bool
}

func newFakePoll(state model.PollState) *fakePoll {
	return &fakePoll{state: state, ch: make(chan model.PollState, 1)}
}

func (p *fakePoll) State() model.PollState { return p.state }
func (p *fakePoll) Refresh()               { p.refreshCalls++ }

func (p *fakePoll) Subscribe() (<-chan model.PollState, func()) {
	return p.ch, func() { p.cancelled = true }
}

type fakeBackend struct {
	mu sync.Mutex

	series     model.UserActivitySeries
	seriesErr  error
	history    model.MessageHistory
	historyErr error
	csv        []byte
	sheet      model.SheetResult
	markErr    error

	rangeCalls   []time.Time // start of each range query
	historyDays  []int
	sheetCalls   int
	publicCalls  int
	markPaidArgs []string
}

func (b *fakeBackend) GetAllMetrics(context.Context) (model.MetricsSnapshot, error) {
	return model.MetricsSnapshot{}, nil
}

func (b *fakeBackend) GetMetricsByDateRange(_ context.Context, start, _ time.Time) (model.UserActivitySeries, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rangeCalls = append(b.rangeCalls, start)
	return b.series, b.seriesErr
}

func (b *fakeBackend) GetMessageHistory(_ context.Context, days int) (model.MessageHistory, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.historyDays = append(b.historyDays, days)
	return b.history, b.historyErr
}

func (b *fakeBackend) GenerateRewardsCSV(context.Context) ([]byte, error) {
	return b.csv, nil
}

func (b *fakeBackend) UpdateGoogleSheet(context.Context) (model.SheetResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sheetCalls++
	return b.sheet, nil
}

func (b *fakeBackend) UpdatePublicGoogleSheet(context.Context) (model.SheetResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.publicCalls++
	return b.sheet, nil
}

func (b *fakeBackend) MarkAmbassadorPaid(_ context.Context, phone, note string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.markPaidArgs = append(b.markPaidArgs, phone+"|"+note)
	return b.markErr
}

type recordingOpener struct {
	links []string
}

func (o *recordingOpener) Open(link string) error {
	o.links = append(o.links, link)
	return nil
}

type recordingObserver struct {
	actions []string
	errs    []error
}

func (o *recordingObserver) ObserveAction(action string, err error) {
	o.actions = append(o.actions, action)
	o.errs = append(o.errs, err)
}

func newTestModel(poll *fakePoll, backend *fakeBackend) *DashboardModel {
	deps := DashboardDeps{
		Backend: backend,
		Opener:  &recordingOpener{},
		Now:     func() time.Time { return fixedNow },
	}
	if poll != nil {
		deps.Poll = poll
	}
	m := NewDashboardModel(Config{}, deps)
	m.width = 160
	m.height = 60
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func readySnapshot() model.MetricsSnapshot {
	return model.MetricsSnapshot{
		TotalUsers:    1234,
		ActiveUsers:   321,
		UserRetention: 42.5,
		TotalGroups:   56,
		ActiveGroups:  12,
		TotalMessages: 98765,
		DailyMessages: 210,
		FetchedAt:     fixedNow,
	}
}
