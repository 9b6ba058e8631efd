package tui

import tea "github.com/charmbracelet/bubbletea"

// ViewContext provides read-only context to decks for rendering,
// replacing direct access to *DashboardModel.
type ViewContext struct {
	ContentWidth  int
	ContentHeight int
	Days          int    // selected chart window
	ActiveDays    int    // window of the active users/groups counters
	DeckLastError string // per-deck last error (set per render)
	DeckLoading   bool   // true when deck's data fetch is in-flight
}

// ModalContext provides read-only context to modals.
type ModalContext struct {
	ReverseScrollWheel bool
}

// Action identifies what a deck or modal wants the dashboard to do.
type Action int

const (
	ActionPushModal Action = iota
	ActionNotify
	ActionRetryDeck
)

// ActionMsg lets decks and modals talk to the dashboard without mutating it.
type ActionMsg struct {
	Action  Action
	Payload any
}

// actionMsg wraps ActionMsg as a tea.Cmd.
func actionMsg(a ActionMsg) tea.Cmd {
	return func() tea.Msg { return a }
}
