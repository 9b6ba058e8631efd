package tui

import (
	"github.com/bubbl-app/bubbl-metrics/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case pollStateMsg:
		cmds = append(cmds, m.handlePollState(model.PollState(msg))...)

	case pollClosedMsg:
		m.pollClosed = true
		return m, nil

	case DeckDataMsg:
		cmds = append(cmds, m.handleDeckData(msg))

	case ActionMsg:
		cmds = append(cmds, m.handleAction(msg))

	case markPaidSubmitMsg:
		cmds = append(cmds, m.markPaid(msg.Phone, msg.Note))

	case actionResultMsg:
		cmds = append(cmds, m.handleActionResult(msg))

	case toastExpireMsg:
		m.expireToast(msg.id)
		return m, nil

	case SpinnerTickMsg:
		return m.handleSpinnerTick()
	}

	cmds = append(cmds, m.startSpinnerIfNeeded())
	return m, tea.Batch(cmds...)
}

// handlePollState records a new poll state and keeps listening. A completed
// Ready poll also refreshes charts that are idle so they track the counters.
func (m *DashboardModel) handlePollState(state model.PollState) []tea.Cmd {
	prev := m.pollState
	m.pollState = state

	cmds := []tea.Cmd{waitForPollState(m.pollCh)}
	if state.IsReady() && prev.Status == model.PollLoading {
		cmds = append(cmds, m.fetchAllDecks(false)...)
	}
	return cmds
}

// fetchAllDecks starts a fetch for every deck type. With force, a type
// already in flight is marked pending and refetched once its response lands.
func (m *DashboardModel) fetchAllDecks(force bool) []tea.Cmd {
	var cmds []tea.Cmd
	seen := make(map[string]bool)
	for _, d := range m.decks {
		fd, ok := d.(FetchingDeck)
		if !ok || seen[fd.TypeID()] {
			continue
		}
		seen[fd.TypeID()] = true
		if cmd := m.fetchDeck(fd, force); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (m *DashboardModel) fetchDeck(fd FetchingDeck, force bool) tea.Cmd {
	if m.backend == nil {
		return nil
	}
	state := m.deckStates[fd.TypeID()]
	if state == nil {
		state = &DeckTypeState{TypeID: fd.TypeID()}
		m.deckStates[fd.TypeID()] = state
	}
	if state.FetchInFlight {
		if force {
			state.Pending = true
		}
		return nil
	}
	state.FetchInFlight = true
	state.Pending = false
	return fd.FetchCmd(m.backend, m.days, m.now())
}

// handleDeckData applies fetched data to every deck of the type. Responses
// for a window that is no longer selected are dropped and refetched.
func (m *DashboardModel) handleDeckData(msg DeckDataMsg) tea.Cmd {
	state := m.deckStates[msg.DeckTypeID]
	if state == nil {
		return nil
	}
	state.FetchInFlight = false

	stale := msg.Days != m.days
	if !stale {
		state.LastFetchAt = m.now()
		if msg.Err != nil {
			state.LastError = msg.Err.Error()
			state.LastErrorAt = m.now()
			state.ConsecutiveErrs++
			m.log.Warn().Err(msg.Err).Str("deck", msg.DeckTypeID).Int("days", msg.Days).Msg("chart fetch failed")
		} else {
			state.LastError = ""
			state.ConsecutiveErrs = 0
		}
		for _, d := range m.decks {
			if fd, ok := d.(FetchingDeck); ok && fd.TypeID() == msg.DeckTypeID {
				fd.ApplyData(msg.Data, msg.Err)
			}
		}
	}

	if stale || state.Pending {
		return m.refetchType(msg.DeckTypeID)
	}
	return nil
}

func (m *DashboardModel) refetchType(typeID string) tea.Cmd {
	for _, d := range m.decks {
		if fd, ok := d.(FetchingDeck); ok && fd.TypeID() == typeID {
			return m.fetchDeck(fd, true)
		}
	}
	return nil
}

// handleAction routes requests raised by decks and modals.
func (m *DashboardModel) handleAction(msg ActionMsg) tea.Cmd {
	switch msg.Action {
	case ActionPushModal:
		if modal, ok := msg.Payload.(Modal); ok {
			m.PushModal(modal)
		}
	case ActionNotify:
		if text, ok := msg.Payload.(string); ok {
			return m.notify(toastInfo, text)
		}
	case ActionRetryDeck:
		if typeID, ok := msg.Payload.(string); ok {
			return m.refetchType(typeID)
		}
	}
	return nil
}

// setDays changes the chart window and refetches the charts.
func (m *DashboardModel) setDays(days int) tea.Cmd {
	if days == m.days || days <= 0 {
		return nil
	}
	m.days = days
	return tea.Batch(m.fetchAllDecks(true)...)
}

// stepDays moves to the next (dir > 0) or previous chart window option.
func stepDays(days, dir int) int {
	opts := model.ChartDayOptions
	if dir > 0 {
		for _, d := range opts {
			if d > days {
				return d
			}
		}
		return days
	}
	for i := len(opts) - 1; i >= 0; i-- {
		if opts[i] < days {
			return opts[i]
		}
	}
	return days
}
