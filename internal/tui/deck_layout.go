package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// minTwoColumnWidth is the narrowest content width that shows decks side by side.
const minTwoColumnWidth = 100

func (m *DashboardModel) deckColumnCount(width int) int {
	if len(m.decks) <= 1 || width < minTwoColumnWidth {
		return 1
	}
	return 2
}

func (m *DashboardModel) deckHeight(idx int) int {
	h := m.decks[idx].ContentLines(m.viewContext()) + 3
	if h < 4 {
		return 4
	}
	return h
}

func (m *DashboardModel) deckRowHeights(width int) []int {
	if len(m.decks) == 0 {
		return nil
	}

	cols := m.deckColumnCount(width)
	rows := (len(m.decks) + cols - 1) / cols
	heights := make([]int, rows)

	for row := 0; row < rows; row++ {
		rowHeight := 4
		for col := 0; col < cols; col++ {
			idx := row*cols + col
			if idx >= len(m.decks) {
				break
			}
			rowHeight = max(rowHeight, m.deckHeight(idx))
		}
		heights[row] = rowHeight
	}

	return heights
}

func (m *DashboardModel) deckRowHeightsFor(width, height int) []int {
	required := m.deckRowHeights(width)
	if len(required) == 0 {
		return nil
	}

	// Distribute height equally across rows.
	rows := len(required)
	perRow := height / rows
	if perRow < 3 {
		perRow = 3
	}

	scaled := make([]int, rows)
	for i := range scaled {
		scaled[i] = perRow
	}
	// Give the last row any remaining lines.
	scaled[rows-1] = height - perRow*(rows-1)
	if scaled[rows-1] < 3 {
		scaled[rows-1] = 3
	}

	return scaled
}

// deckTitleWithBadges appends loading/error badges to a deck title based on ViewContext.
func deckTitleWithBadges(title string, ctx ViewContext) string {
	if ctx.DeckLoading {
		title += " " + spinnerFrame()
	}
	if ctx.DeckLastError != "" {
		title += " ⚠"
	}
	return title
}

// renderDecksGrid renders a two-column deck grid (single-column when narrow).
func (m *DashboardModel) renderDecksGrid(width int, height int) string {
	if width < 20 {
		return "Terminal too narrow"
	}

	if len(m.decks) == 0 {
		return "No decks registered"
	}

	cols := m.deckColumnCount(width)
	rowHeights := m.deckRowHeightsFor(width, height)
	rows := len(rowHeights)

	// Each deck adds 2 chars for borders (left+right) and 2 lines
	// (top+bottom) on top of its Width/Height.
	borderWidth := 2
	deckWidth := width - borderWidth
	colGap := 0
	if cols > 1 {
		colGap = 1
		deckWidth = (width - colGap - cols*borderWidth) / cols
		if deckWidth < 25 {
			deckWidth = 25
		}
	}

	blankDeck := func(deckHeight int) string {
		return lipgloss.NewStyle().
			Width(deckWidth).
			Height(deckHeight).
			Render("")
	}

	baseCtx := m.viewContext()
	renderDeck := func(idx int, h int) string {
		active := m.activeDeckIdx == idx
		ctx := baseCtx
		// Inject per-deck loading/error state into ViewContext.
		if fd, ok := m.decks[idx].(FetchingDeck); ok {
			if state, exists := m.deckStates[fd.TypeID()]; exists {
				ctx.DeckLastError = state.LastError
				ctx.DeckLoading = state.FetchInFlight
			}
		}
		return m.decks[idx].Render(ctx, deckWidth, max(1, h-2), active)
	}

	renderedRows := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		deckHeight := rowHeights[row]
		rowDecks := make([]string, 0, cols)

		for col := 0; col < cols; col++ {
			idx := row*cols + col
			if idx >= len(m.decks) {
				if cols > 1 {
					rowDecks = append(rowDecks, blankDeck(deckHeight))
				}
				continue
			}
			rowDecks = append(rowDecks, renderDeck(idx, deckHeight))
		}

		rowView := rowDecks[0]
		if len(rowDecks) > 1 {
			withGaps := make([]string, 0, len(rowDecks)*2-1)
			for i, deck := range rowDecks {
				if i > 0 {
					withGaps = append(withGaps, " ")
				}
				withGaps = append(withGaps, deck)
			}
			rowView = lipgloss.JoinHorizontal(lipgloss.Top, withGaps...)
		}
		renderedRows = append(renderedRows, rowView)
	}

	result := lipgloss.JoinVertical(lipgloss.Left, renderedRows...)

	constrainedStyle := lipgloss.NewStyle().
		Height(height).
		MaxHeight(height).
		Width(width)

	return constrainedStyle.Render(result)
}
