package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModal displays the key bindings and a short guide.
type HelpModal struct {
	ctx      ModalContext
	viewport viewport.Model
	help     help.Model
	keys     KeyMap
	days     int
}

func NewHelpModal(m *DashboardModel) *HelpModal {
	h := help.New()
	h.ShowAll = true
	return &HelpModal{
		ctx:      m.modalContext(),
		viewport: viewport.New(80, 20),
		help:     h,
		keys:     m.keys,
		days:     m.days,
	}
}

func (h *HelpModal) ID() string { return "help" }

func (h *HelpModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			h.viewport.ScrollUp(1)
			return false, nil
		case "down", "j":
			h.viewport.ScrollDown(1)
			return false, nil
		case "pgup":
			h.viewport.HalfPageUp()
			return false, nil
		case "pgdown":
			h.viewport.HalfPageDown()
			return false, nil
		case "?", "h", "escape", "esc", "q":
			return true, nil
		}
		var cmd tea.Cmd
		h.viewport, cmd = h.viewport.Update(msg)
		return false, cmd

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return false, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if h.ctx.ReverseScrollWheel {
				h.viewport.ScrollDown(1)
			} else {
				h.viewport.ScrollUp(1)
			}
		case tea.MouseButtonWheelDown:
			if h.ctx.ReverseScrollWheel {
				h.viewport.ScrollUp(1)
			} else {
				h.viewport.ScrollDown(1)
			}
		}
		return false, nil
	}
	return false, nil
}

func (h *HelpModal) View(width, height int) string {
	modalWidth := width - 8
	modalHeight := height - 4
	contentWidth := max(10, modalWidth-4)
	contentHeight := max(3, modalHeight-4)

	h.viewport.Width = contentWidth
	h.viewport.Height = contentHeight
	h.help.Width = contentWidth
	h.viewport.SetContent(lipgloss.NewStyle().Width(contentWidth).Render(h.content()))

	body := lipgloss.NewStyle().
		Width(contentWidth).
		Height(contentHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Render(h.viewport.View())

	status := renderModalStatusBar("up/down/Wheel: Scroll", "PgUp/PgDn: Page", "?/h: Toggle Help", "ESC: Close")
	return renderModalFrame("Help", body, status, width, height, modalWidth, modalHeight)
}

func (h *HelpModal) content() string {
	var b strings.Builder
	b.WriteString("Bubbl Metrics Dashboard Help\n\n")
	b.WriteString(h.help.View(h.keys))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, `COUNTERS:
  The top row shows the latest snapshot. It is refreshed every poll;
  when any metric fails the whole snapshot is replaced by the error.

CHARTS (currently %d days):
  User Activity    - daily active and new users
  Message Activity - messages per day
  +/- or ]/[ cycle the window through 7, 14, 30 and 90 days.

REWARDS:
  e  - download the rewards CSV into the export directory
  g  - regenerate the Google Sheet (opens it when a link is returned)
  G  - regenerate the public Google Sheet
  m  - record an ambassador payout (phone with country code, optional note)
`, h.days)
	return b.String()
}
