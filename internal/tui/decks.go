package tui

import (
	"time"

	"github.com/bubbl-app/bubbl-metrics/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// deckFetchTimeout bounds a single chart fetch.
const deckFetchTimeout = model.DefaultRequestTimeout

// Deck is a pluggable dashboard deck.
type Deck interface {
	ID() string
	Title(ctx ViewContext) string
	Render(ctx ViewContext, width, height int, active bool) string
	ContentLines(ctx ViewContext) int
	OnSelect(ctx ViewContext) tea.Cmd // returns nil or ActionMsg
}

// FetchingDeck extends Deck with its own fetch lifecycle and error state,
// independent of the snapshot poller.
type FetchingDeck interface {
	Deck
	TypeID() string                                                        // dedup key (e.g. "users")
	FetchCmd(history model.HistoryReader, days int, now time.Time) tea.Cmd // returns DeckDataMsg
	ApplyData(data any, err error)                                         // receive fetched data
}

// DeckDataMsg carries fetched data back to a deck type.
type DeckDataMsg struct {
	DeckTypeID string
	Days       int
	Data       any
	Err        error
}
