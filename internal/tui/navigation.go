package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyPress dispatches key events: modal stack first, then global
// dashboard shortcuts.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.Close()
		return m, tea.Quit
	}

	// Modal on stack gets the event first.
	if modal := m.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			m.PopModal()
		}
		return m, cmd
	}

	return m.handleGlobalKeys(msg)
}

// handleGlobalKeys handles dashboard-level shortcuts.
// Only reached when no modal is on the stack.
func (m *DashboardModel) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.PushModal(NewHelpModal(m))
		return m, nil

	case key.Matches(msg, k.NextSection):
		if len(m.decks) > 0 {
			m.activeDeckIdx = (m.activeDeckIdx + 1) % len(m.decks)
		}
		return m, nil

	case key.Matches(msg, k.PrevSection):
		if len(m.decks) > 0 {
			m.activeDeckIdx = (m.activeDeckIdx - 1 + len(m.decks)) % len(m.decks)
		}
		return m, nil

	case key.Matches(msg, k.Enter):
		if m.activeDeckIdx < len(m.decks) {
			return m, m.decks[m.activeDeckIdx].OnSelect(m.viewContext())
		}
		return m, nil

	case key.Matches(msg, k.Refresh):
		if m.poll != nil {
			m.poll.Refresh()
		}
		return m, tea.Batch(m.fetchAllDecks(false)...)

	case key.Matches(msg, k.DaysUp):
		return m, m.daysChanged(stepDays(m.days, 1))

	case key.Matches(msg, k.DaysDown):
		return m, m.daysChanged(stepDays(m.days, -1))

	case key.Matches(msg, k.ExportCSV):
		return m, m.exportCSV()

	case key.Matches(msg, k.UpdateSheet):
		return m, m.updateSheet(false)

	case key.Matches(msg, k.PublicSheet):
		return m, m.updateSheet(true)

	case key.Matches(msg, k.MarkPaid):
		m.PushModal(NewMarkPaidModal(m.modalContext()))
		return m, nil
	}

	return m, nil
}

func (m *DashboardModel) daysChanged(days int) tea.Cmd {
	cmd := m.setDays(days)
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, m.notify(toastInfo, fmt.Sprintf("Chart window: %d days", days)), m.startSpinnerIfNeeded())
}

// handleMouse forwards mouse events to the top modal.
func (m *DashboardModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if modal := m.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			m.PopModal()
		}
		return m, cmd
	}
	return m, nil
}
