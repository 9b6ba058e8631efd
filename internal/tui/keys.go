package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all dashboard key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Escape    key.Binding

	// Navigation
	NextSection key.Binding
	PrevSection key.Binding
	Enter       key.Binding

	// Dashboard
	Refresh     key.Binding
	DaysUp      key.Binding
	DaysDown    key.Binding
	ExportCSV   key.Binding
	UpdateSheet key.Binding
	PublicSheet key.Binding
	MarkPaid    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?/h", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("escape", "esc"),
			key.WithHelp("esc", "close"),
		),

		NextSection: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next chart"),
		),
		PrevSection: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev chart"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "retry chart"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh now"),
		),
		DaysUp: key.NewBinding(
			key.WithKeys("+", "]"),
			key.WithHelp("+/]", "longer window"),
		),
		DaysDown: key.NewBinding(
			key.WithKeys("-", "["),
			key.WithHelp("-/[", "shorter window"),
		),
		ExportCSV: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export rewards CSV"),
		),
		UpdateSheet: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "update Google Sheet"),
		),
		PublicSheet: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "update public sheet"),
		),
		MarkPaid: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark ambassador paid"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.NextSection, k.DaysUp, k.DaysDown, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextSection, k.PrevSection, k.Enter, k.Escape},
		{k.Refresh, k.DaysUp, k.DaysDown},
		{k.ExportCSV, k.UpdateSheet, k.PublicSheet, k.MarkPaid},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
