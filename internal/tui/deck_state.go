package tui

import "time"

// DeckTypeState tracks per-TypeID fetch/error state.
type DeckTypeState struct {
	TypeID          string
	FetchInFlight   bool
	Pending         bool // another fetch was requested while one was in flight
	LastError       string
	LastErrorAt     time.Time
	LastFetchAt     time.Time
	ConsecutiveErrs int
}
