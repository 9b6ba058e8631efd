package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	toastTTL      = 5 * time.Second
	maxToasts     = 3
	errorToastTTL = 10 * time.Second
)

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastError
)

type toast struct {
	id    int
	level toastLevel
	text  string
}

// NotificationState holds the visible toasts, newest last.
type NotificationState struct {
	toasts      []toast
	nextToastID int
}

// toastExpireMsg removes a toast once its TTL elapses.
type toastExpireMsg struct {
	id int
}

// notify shows a toast and schedules its removal.
func (m *DashboardModel) notify(level toastLevel, text string) tea.Cmd {
	m.nextToastID++
	id := m.nextToastID
	m.toasts = append(m.toasts, toast{id: id, level: level, text: text})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}

	ttl := toastTTL
	if level == toastError {
		ttl = errorToastTTL
	}
	return tea.Tick(ttl, func(_ time.Time) tea.Msg {
		return toastExpireMsg{id: id}
	})
}

func (m *DashboardModel) expireToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// renderToasts renders one line per visible toast.
func (m *DashboardModel) renderToasts(width int) string {
	if len(m.toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		var color lipgloss.Color
		var icon string
		switch t.level {
		case toastSuccess:
			color, icon = ColorGreen, "✓"
		case toastError:
			color, icon = ColorRed, "✗"
		default:
			color, icon = ColorBlue, "•"
		}
		line := lipgloss.NewStyle().
			Foreground(color).
			MaxWidth(width).
			Render(" " + icon + " " + t.text)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
