package tui

import (
	"fmt"
	"strconv"

	"github.com/bubbl-app/bubbl-metrics/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	counterCardWidth  = 26
	counterCardHeight = 4
)

// counterCard is one headline metric.
type counterCard struct {
	Title string
	Value string
}

// counterCards lists the snapshot as cards in display order.
func counterCards(s model.MetricsSnapshot, activeDays int) []counterCard {
	return []counterCard{
		{Title: "Total Users", Value: humanize.Comma(s.TotalUsers)},
		{Title: fmt.Sprintf("Active Users (%d days)", activeDays), Value: humanize.Comma(s.ActiveUsers)},
		{Title: "User Retention Rate", Value: formatPercent(s.UserRetention)},
		{Title: "Total Groups", Value: humanize.Comma(s.TotalGroups)},
		{Title: fmt.Sprintf("Active Groups (%d days)", activeDays), Value: humanize.Comma(s.ActiveGroups)},
		{Title: "Total Messages", Value: humanize.Comma(s.TotalMessages)},
		{Title: "Messages Today", Value: humanize.Comma(s.DailyMessages)},
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// countersColumns returns how many cards fit side by side.
func countersColumns(width int) int {
	cols := width / (counterCardWidth + 2)
	return max(1, min(cols, 7))
}

// countersHeight is the height of the counter area for the given width.
func countersHeight(width int) int {
	cols := countersColumns(width)
	rows := (7 + cols - 1) / cols
	return rows * (counterCardHeight + 2)
}

// renderCounters renders the counter cards for a poll state. Loading and
// error states replace the whole area.
func renderCounters(state model.PollState, activeDays, width int) string {
	height := countersHeight(width)

	switch state.Status {
	case model.PollError:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			errorStyle.Render("Error: "+state.Err))
	case model.PollLoading:
		return renderLoadingPlaceholder(width, height, "Loading metrics...")
	}
	if state.Snapshot == nil {
		return renderLoadingPlaceholder(width, height, "Loading metrics...")
	}

	cards := counterCards(*state.Snapshot, activeDays)
	cols := countersColumns(width)
	cardWidth := max(counterCardWidth, width/cols-2)

	rows := make([]string, 0, (len(cards)+cols-1)/cols)
	for start := 0; start < len(cards); start += cols {
		end := min(start+cols, len(cards))
		rendered := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			rendered = append(rendered, renderCounterCard(cards[i], cardColors[i%len(cardColors)], cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCounterCard(c counterCard, color lipgloss.Color, width int) string {
	title := lipgloss.NewStyle().
		Foreground(ColorGray).
		Render(c.Title)
	value := lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Render(c.Value)

	return sectionStyle.
		BorderForeground(color).
		Width(width).
		Height(counterCardHeight).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", value))
}
