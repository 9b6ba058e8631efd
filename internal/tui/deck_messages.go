package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/bubbl-app/bubbl-metrics/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

var messageSeries = []chartSeries{
	{Name: "Messages", Color: ColorPurple},
}

// MessagesDeck charts the daily message count history.
type MessagesDeck struct {
	view chartView
}

// NewMessagesDeck creates an empty message history deck.
func NewMessagesDeck() *MessagesDeck {
	return &MessagesDeck{}
}

func (d *MessagesDeck) ID() string     { return "messages" }
func (d *MessagesDeck) TypeID() string { return "messages" }

func (d *MessagesDeck) Title(ctx ViewContext) string {
	return fmt.Sprintf("Message Activity - Last %d Days", ctx.Days)
}

func (d *MessagesDeck) ContentLines(_ ViewContext) int { return 12 }

func (d *MessagesDeck) Render(ctx ViewContext, width, height int, active bool) string {
	return renderChartDeck(d.Title(ctx), d.view, messageSeries, ctx, width, height, active)
}

func (d *MessagesDeck) OnSelect(_ ViewContext) tea.Cmd {
	return actionMsg(ActionMsg{Action: ActionRetryDeck, Payload: d.TypeID()})
}

func (d *MessagesDeck) FetchCmd(history model.HistoryReader, days int, _ time.Time) tea.Cmd {
	typeID := d.TypeID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deckFetchTimeout)
		defer cancel()

		h, err := history.GetMessageHistory(ctx, days)
		return DeckDataMsg{DeckTypeID: typeID, Days: days, Data: h, Err: err}
	}
}

func (d *MessagesDeck) ApplyData(data any, err error) {
	d.view.Loaded = true
	if err != nil {
		d.view.Err = "Failed to load message data"
		d.view.Bars = nil
		return
	}
	h, ok := data.(model.MessageHistory)
	if !ok {
		return
	}
	d.view.Err = ""
	points := h.Series()
	d.view.Bars = make([]chartBar, 0, len(points))
	for _, p := range points {
		d.view.Bars = append(d.view.Bars, chartBar{Date: p.Date, Values: []float64{float64(p.Count)}})
	}
}
