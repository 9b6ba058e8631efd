package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	ColorNavy   = lipgloss.Color("#1B2A41")
	ColorOrange = lipgloss.Color("#FB923C")
	ColorBlue   = lipgloss.Color("#3B82F6")
	ColorGreen  = lipgloss.Color("#10B981")
	ColorPurple = lipgloss.Color("#A78BFA")
	ColorYellow = lipgloss.Color("#FACC15")
	ColorPink   = lipgloss.Color("#F472B6")
	ColorIndigo = lipgloss.Color("#818CF8")
	ColorRed    = lipgloss.Color("#F87171")
	ColorGray   = lipgloss.Color("244")
	ColorWhite  = lipgloss.Color("255")
)

var (
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray)

	activeSectionStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorOrange)

	deckTitleStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true).
			PaddingLeft(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true).
			PaddingLeft(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Background(ColorOrange).
			Foreground(lipgloss.Color("#1F2937")).
			Bold(true)
)

// cardColors follows the order of the counter cards.
var cardColors = []lipgloss.Color{
	ColorBlue,
	ColorGreen,
	ColorPurple,
	ColorYellow,
	ColorPink,
	ColorIndigo,
	ColorRed,
}
