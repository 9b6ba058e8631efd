package tui

import (
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

const (
	chartDateLayout = "Jan 2"
	noDataText      = "No data available for the selected period"
)

// chartSeries names one stacked component of each bar.
type chartSeries struct {
	Name  string
	Color lipgloss.Color
}

// chartBar is one day on a history chart. Values line up with the series.
type chartBar struct {
	Date   time.Time
	Values []float64
}

// chartView is the render state shared by the history decks.
// Err is the full message shown in place of the chart.
type chartView struct {
	Loaded bool
	Err    string
	Bars   []chartBar
}

// renderChartBody renders a history chart or its loading, error or empty placeholder.
func renderChartBody(v chartView, series []chartSeries, width, height int) string {
	switch {
	case v.Err != "":
		msg := errorStyle.Render(v.Err)
		hint := helpStyle.Render("enter: retry")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center, msg, hint))
	case !v.Loaded:
		return renderLoadingPlaceholder(width, height, "Loading chart...")
	case len(v.Bars) == 0:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, helpStyle.Render(noDataText))
	}

	legend := renderChartLegend(series)
	// legend + date axis
	chartHeight := max(3, height-2)
	return lipgloss.JoinVertical(lipgloss.Left,
		legend,
		renderBarChart(v.Bars, series, width, chartHeight),
	)
}

// visibleBars returns the most recent bars that fit in width columns.
func visibleBars(bars []chartBar, width int) []chartBar {
	maxBars := max(1, (width+1)/2)
	if len(bars) > maxBars {
		return bars[len(bars)-maxBars:]
	}
	return bars
}

// renderBarChart draws stacked bars with a date axis underneath.
func renderBarChart(bars []chartBar, series []chartSeries, width, height int) string {
	width = max(width, 10)
	visible := visibleBars(bars, width)

	var total float64
	for _, b := range visible {
		for _, v := range b.Values {
			total += v
		}
	}
	if total <= 0 {
		flat := lipgloss.Place(width, height, lipgloss.Left, lipgloss.Bottom,
			helpStyle.Render(strings.Repeat("_", min(width-2, len(visible)*2))))
		return lipgloss.JoinVertical(lipgloss.Left, flat, renderDateAxis(visible, width))
	}

	bc := barchart.New(width, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)

	styles := make([]lipgloss.Style, len(series))
	for i, s := range series {
		styles[i] = lipgloss.NewStyle().Foreground(s.Color).Background(s.Color)
	}

	for _, b := range visible {
		values := make([]barchart.BarValue, 0, len(series))
		for i, v := range b.Values {
			if i >= len(series) || v <= 0 {
				continue
			}
			values = append(values, barchart.BarValue{Name: series[i].Name, Value: v, Style: styles[i]})
		}
		if len(values) == 0 {
			values = append(values, barchart.BarValue{Name: "EMPTY", Value: 0, Style: styles[0]})
		}
		bc.Push(barchart.BarData{
			Label:  b.Date.Format(chartDateLayout),
			Values: values,
		})
	}

	bc.Draw()
	return lipgloss.JoinVertical(lipgloss.Left, bc.View(), renderDateAxis(visible, width))
}

// renderDateAxis labels the first and last visible day.
func renderDateAxis(bars []chartBar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	first := bars[0].Date.Format(chartDateLayout)
	if len(bars) == 1 {
		return helpStyle.Render(first)
	}
	last := bars[len(bars)-1].Date.Format(chartDateLayout)
	gap := width - len(first) - len(last) - 1
	if gap < 1 {
		return helpStyle.Render(first + " - " + last)
	}
	return helpStyle.Render(first + strings.Repeat(" ", gap) + last)
}

func renderChartLegend(series []chartSeries) string {
	parts := make([]string, 0, len(series))
	for _, s := range series {
		swatch := lipgloss.NewStyle().Foreground(s.Color).Render("■")
		parts = append(parts, swatch+" "+s.Name)
	}
	return " " + strings.Join(parts, "  ")
}
