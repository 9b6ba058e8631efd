package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/bubbl-app/bubbl-metrics/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var userActivitySeries = []chartSeries{
	{Name: "Active Users", Color: ColorBlue},
	{Name: "New Users", Color: ColorGreen},
}

// UserActivityDeck charts daily active and new users over the selected window.
type UserActivityDeck struct {
	view chartView
}

// NewUserActivityDeck creates an empty user activity deck.
func NewUserActivityDeck() *UserActivityDeck {
	return &UserActivityDeck{}
}

func (d *UserActivityDeck) ID() string     { return "users" }
func (d *UserActivityDeck) TypeID() string { return "users" }

func (d *UserActivityDeck) Title(ctx ViewContext) string {
	return fmt.Sprintf("User Activity - Last %d Days", ctx.Days)
}

func (d *UserActivityDeck) ContentLines(_ ViewContext) int { return 12 }

func (d *UserActivityDeck) Render(ctx ViewContext, width, height int, active bool) string {
	return renderChartDeck(d.Title(ctx), d.view, userActivitySeries, ctx, width, height, active)
}

func (d *UserActivityDeck) OnSelect(_ ViewContext) tea.Cmd {
	return actionMsg(ActionMsg{Action: ActionRetryDeck, Payload: d.TypeID()})
}

// FetchCmd queries the [now-days, now] range.
func (d *UserActivityDeck) FetchCmd(history model.HistoryReader, days int, now time.Time) tea.Cmd {
	typeID := d.TypeID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deckFetchTimeout)
		defer cancel()

		start, end := model.DateWindow(days, now)
		series, err := history.GetMetricsByDateRange(ctx, start, end)
		return DeckDataMsg{DeckTypeID: typeID, Days: days, Data: series, Err: err}
	}
}

func (d *UserActivityDeck) ApplyData(data any, err error) {
	d.view.Loaded = true
	if err != nil {
		d.view.Err = "Failed to load chart data: " + err.Error()
		d.view.Bars = nil
		return
	}
	series, ok := data.(model.UserActivitySeries)
	if !ok {
		return
	}
	d.view.Err = ""
	d.view.Bars = make([]chartBar, 0, len(series.Metrics))
	for _, p := range series.Metrics {
		d.view.Bars = append(d.view.Bars, chartBar{
			Date:   p.Date,
			Values: []float64{float64(p.ActiveUsers), float64(p.NewUsers)},
		})
	}
}

// renderChartDeck frames a chart body with the deck title and border.
func renderChartDeck(title string, view chartView, series []chartSeries, ctx ViewContext, width, height int, active bool) string {
	style := sectionStyle.Width(width).Height(height)
	if active {
		style = activeSectionStyle.Width(width).Height(height)
	}

	header := deckTitleStyle.Render(deckTitleWithBadges(title, ctx))
	body := renderChartBody(view, series, width, max(1, height-1))

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}
