package tui

import (
	"time"

	"github.com/bubbl-app/bubbl-metrics/internal/browser"
	"github.com/bubbl-app/bubbl-metrics/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// PollSource is the snapshot feed the dashboard renders from.
type PollSource interface {
	State() model.PollState
	Subscribe() (<-chan model.PollState, func())
	Refresh()
}

// ActionObserver records the outcome of rewards actions.
type ActionObserver interface {
	ObserveAction(action string, err error)
}

// Config holds the user-tunable dashboard settings.
type Config struct {
	ActiveDays         int
	ChartDays          int
	ExportDir          string
	OpenBrowser        bool
	ReverseScrollWheel bool
}

// DashboardDeps are the collaborators injected into the dashboard.
type DashboardDeps struct {
	Poll     PollSource
	Backend  model.Backend
	Opener   browser.Opener
	Observer ActionObserver
	Logger   zerolog.Logger
	Now      func() time.Time
}

// ModalStackState holds the modal stack.
type ModalStackState struct {
	modalStack []Modal
}

// ActionState tracks which non-idempotent actions are running.
type ActionState struct {
	actionBusy map[string]bool
}

// DashboardModel is the Bubble Tea model of the metrics dashboard.
type DashboardModel struct {
	// Composed sub-states (embedded for field promotion)
	ModalStackState
	ActionState
	NotificationState

	// Window dimensions
	width  int
	height int

	// Configuration
	activeDays         int
	days               int
	exportDir          string
	openBrowser        bool
	reverseScrollWheel bool

	keys KeyMap

	// Latest poll state and its subscription.
	pollState  model.PollState
	pollCh     <-chan model.PollState
	pollCancel func()
	pollClosed bool

	// Chart decks and per-type fetch/error tracking.
	decks         []Deck
	activeDeckIdx int
	deckStates    map[string]*DeckTypeState

	spinnerRunning bool

	poll     PollSource
	backend  model.Backend
	opener   browser.Opener
	observer ActionObserver
	log      zerolog.Logger
	now      func() time.Time
}

// pollStateMsg delivers a state published by the poller.
type pollStateMsg model.PollState

// pollClosedMsg reports that the poll subscription ended.
type pollClosedMsg struct{}

// NewDashboardModel creates the dashboard and subscribes to the poll source.
func NewDashboardModel(cfg Config, deps DashboardDeps) *DashboardModel {
	if cfg.ActiveDays <= 0 {
		cfg.ActiveDays = model.DefaultActiveWindowDays
	}
	if cfg.ChartDays <= 0 {
		cfg.ChartDays = model.DefaultChartDays
	}
	if deps.Opener == nil {
		deps.Opener = browser.System
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	m := &DashboardModel{
		ActionState:        ActionState{actionBusy: make(map[string]bool)},
		activeDays:         cfg.ActiveDays,
		days:               cfg.ChartDays,
		exportDir:          cfg.ExportDir,
		openBrowser:        cfg.OpenBrowser,
		reverseScrollWheel: cfg.ReverseScrollWheel,
		keys:               DefaultKeyMap(),
		deckStates:         make(map[string]*DeckTypeState),
		poll:               deps.Poll,
		backend:            deps.Backend,
		opener:             deps.Opener,
		observer:           deps.Observer,
		log:                deps.Logger,
		now:                deps.Now,
	}

	if m.poll != nil {
		m.pollState = m.poll.State()
		m.pollCh, m.pollCancel = m.poll.Subscribe()
	} else {
		m.pollState = model.Loading(m.now())
		m.pollClosed = true
	}

	m.SetDecks([]Deck{NewUserActivityDeck(), NewMessagesDeck()})
	return m
}

// SetDecks replaces the chart decks and resets their fetch state.
func (m *DashboardModel) SetDecks(decks []Deck) {
	m.decks = decks
	m.activeDeckIdx = 0
	m.deckStates = make(map[string]*DeckTypeState)
	for _, d := range decks {
		if fd, ok := d.(FetchingDeck); ok {
			if _, exists := m.deckStates[fd.TypeID()]; !exists {
				m.deckStates[fd.TypeID()] = &DeckTypeState{TypeID: fd.TypeID()}
			}
		}
	}
}

// Days returns the selected chart window.
func (m *DashboardModel) Days() int { return m.days }

// PollState returns the last poll state the dashboard received.
func (m *DashboardModel) PollState() model.PollState { return m.pollState }

func (m *DashboardModel) viewContext() ViewContext {
	return ViewContext{
		ContentWidth:  m.width,
		ContentHeight: m.height,
		Days:          m.days,
		ActiveDays:    m.activeDays,
	}
}

func (m *DashboardModel) modalContext() ModalContext {
	return ModalContext{ReverseScrollWheel: m.reverseScrollWheel}
}

// Init starts the poll subscription and the first chart fetches.
func (m *DashboardModel) Init() tea.Cmd {
	var cmds []tea.Cmd

	if !m.pollClosed {
		cmds = append(cmds, waitForPollState(m.pollCh))
	}
	cmds = append(cmds, m.fetchAllDecks(true)...)
	cmds = append(cmds, m.startSpinnerIfNeeded())

	return tea.Batch(cmds...)
}

// waitForPollState blocks on the next published state.
func waitForPollState(ch <-chan model.PollState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return pollClosedMsg{}
		}
		return pollStateMsg(state)
	}
}

// Close releases the poll subscription.
func (m *DashboardModel) Close() {
	if m.pollCancel != nil {
		m.pollCancel()
		m.pollCancel = nil
	}
}

// PushModal pushes a modal onto the stack. Deduplicates by ID.
func (m *DashboardModel) PushModal(modal Modal) {
	for _, existing := range m.modalStack {
		if existing.ID() == modal.ID() {
			return
		}
	}
	m.modalStack = append(m.modalStack, modal)
}

// PopModal removes the topmost modal from the stack.
func (m *DashboardModel) PopModal() {
	if len(m.modalStack) > 0 {
		m.modalStack = m.modalStack[:len(m.modalStack)-1]
	}
}

// TopModal returns the topmost modal, or nil if the stack is empty.
func (m *DashboardModel) TopModal() Modal {
	if len(m.modalStack) == 0 {
		return nil
	}
	return m.modalStack[len(m.modalStack)-1]
}

// HasModal returns true if any modal is on the stack.
func (m *DashboardModel) HasModal() bool {
	return len(m.modalStack) > 0
}
