package tui

import (
	"fmt"
	"strings"

	"github.com/bubbl-app/bubbl-metrics/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// renderBranding renders the product name for the status line.
func renderBranding() string {
	return lipgloss.NewStyle().
		Background(ColorNavy).
		Foreground(ColorOrange).
		Bold(true).
		Render("Bubbl")
}

// renderStatusLine renders the status/help line at the bottom of the screen
func (m *DashboardModel) renderStatusLine() string {
	baseStyle := lipgloss.NewStyle().
		Background(ColorNavy).
		Foreground(ColorWhite)

	w := m.width
	veryNarrow := w < 60
	narrow := w < 80
	medium := w < 120

	var leftText string
	if !m.HasModal() && m.activeDeckIdx < len(m.decks) {
		name := m.decks[m.activeDeckIdx].ID()
		if veryNarrow {
			leftText = name[:min(5, len(name))]
		} else {
			leftText = fmt.Sprintf("[%s]", name)
		}
	}

	var statusText string
	switch {
	case m.HasModal():
		statusText = "ESC: Close"
	case veryNarrow:
		statusText = "r • Tab • ? • q"
	case narrow:
		statusText = "?: Help • r: Refresh • Tab: Chart • q: Quit"
	case medium:
		statusText = "?: Help • r: Refresh • Tab: Chart • +/-: Days • e/g/G/m: Rewards • q: Quit"
	default:
		statusText = "?: Help • r: Refresh • Tab: Chart • Enter: Retry • +/-: Days • e: CSV • g/G: Sheets • m: Mark paid • q: Quit"
	}

	var rightParts []string
	if !veryNarrow {
		rightParts = append(rightParts, m.renderPollIndicator(narrow))
	}
	if !narrow {
		rightParts = append(rightParts, fmt.Sprintf("%dd", m.days))
	}
	if w >= 30 {
		rightParts = append(rightParts, renderBranding())
	}
	rightText := strings.Join(rightParts, "  ")

	leftWidth := lipgloss.Width(leftText) + 2
	rightWidth := lipgloss.Width(rightText) + 2

	if leftWidth+rightWidth >= w {
		if w < 20 {
			return baseStyle.Width(w).Render(leftText)
		}
		return baseStyle.Width(w).Render(" " + leftText)
	}

	centerWidth := w - leftWidth - rightWidth
	if lipgloss.Width(statusText) > centerWidth {
		statusText = ""
	}

	left := baseStyle.Width(leftWidth).Render(" " + leftText)
	center := baseStyle.Width(centerWidth).Align(lipgloss.Center).Render(statusText)
	right := baseStyle.Width(rightWidth).Align(lipgloss.Right).Render(rightText + " ")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, center, right)
}

// renderPollIndicator shows a colored dot for the poll status and when the
// state was last published.
func (m *DashboardModel) renderPollIndicator(narrow bool) string {
	var color lipgloss.Color
	var label string
	switch m.pollState.Status {
	case model.PollReady:
		color, label = ColorGreen, "Updated "+m.pollState.At.Local().Format("15:04:05")
	case model.PollError:
		color, label = ColorRed, "Error"
	default:
		color, label = ColorYellow, "Polling"
	}
	if m.pollClosed {
		color, label = ColorGray, "Stopped"
	}

	dot := lipgloss.NewStyle().Background(ColorNavy).Foreground(color).Render("●")
	if narrow {
		return dot
	}
	return dot + " " + label
}
