package tui

import (
	"time"

	"github.com/bubbl-app/bubbl-metrics/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const spinnerInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerFrame selects a frame from the wall clock so it animates on re-render.
func spinnerFrame() string {
	return spinnerFrames[time.Now().UnixMilli()/spinnerInterval.Milliseconds()%int64(len(spinnerFrames))]
}

// renderLoadingPlaceholder renders an animated loading indicator.
func renderLoadingPlaceholder(width, height int, label string) string {
	loadingStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	text := loadingStyle.Render(spinnerFrame() + " " + label)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}

// SpinnerTickMsg triggers a re-render for loading spinners.
type SpinnerTickMsg struct{}

// handleSpinnerTick re-schedules spinner ticks while anything is loading.
func (m *DashboardModel) handleSpinnerTick() (tea.Model, tea.Cmd) {
	if !m.anyLoading() {
		m.spinnerRunning = false
		return m, nil
	}
	return m, spinnerTick()
}

// anyLoading returns true if the poll or any deck fetch is in flight.
func (m *DashboardModel) anyLoading() bool {
	if m.pollState.Status == model.PollLoading {
		return true
	}
	for _, state := range m.deckStates {
		if state.FetchInFlight {
			return true
		}
	}
	return false
}

// startSpinnerIfNeeded schedules a spinner tick if something is loading and
// no tick chain is already running.
func (m *DashboardModel) startSpinnerIfNeeded() tea.Cmd {
	if m.spinnerRunning || !m.anyLoading() {
		return nil
	}
	m.spinnerRunning = true
	return spinnerTick()
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(_ time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}
