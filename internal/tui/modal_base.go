package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderModalFrame wraps body in the standard modal chrome, centered on screen.
func renderModalFrame(title, body, status string, width, height, modalWidth, modalHeight int) string {
	modalWidth = min(modalWidth, width-4)
	modalHeight = min(modalHeight, height-2)
	contentWidth := max(10, modalWidth-4)

	header := lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(ColorBlue).
		Bold(true).
		Render(title)

	statusBar := lipgloss.NewStyle().
		Foreground(ColorGray).
		Render(status)

	modal := lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)

	finalModal := lipgloss.NewStyle().
		Width(modalWidth).
		Height(modalHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, finalModal)
}

// renderModalStatusBar joins key hints for a modal footer.
func renderModalStatusBar(items ...string) string {
	return strings.Join(items, " | ")
}
