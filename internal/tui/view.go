package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the dashboard, or the top modal when one is open.
func (m *DashboardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading metrics..."
	}

	if modal := m.TopModal(); modal != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			modal.View(m.width, m.height-1),
			m.renderStatusLine(),
		)
	}

	header := m.renderHeader()
	counters := renderCounters(m.pollState, m.activeDays, m.width)
	toasts := m.renderToasts(m.width)
	status := m.renderStatusLine()

	used := lipgloss.Height(header) + lipgloss.Height(counters) + lipgloss.Height(status)
	if toasts != "" {
		used += lipgloss.Height(toasts)
	}
	decksHeight := max(6, m.height-used)

	parts := []string{header, counters, m.renderDecksGrid(m.width, decksHeight)}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, status)

	return lipgloss.NewStyle().
		MaxHeight(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderHeader renders the title bar.
func (m *DashboardModel) renderHeader() string {
	title := headerStyle.Render(" Bubbl Metrics ")
	subtitle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Render(" Real-time Dashboard")

	line := title + subtitle
	pad := m.width - lipgloss.Width(line)
	if pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line
}
