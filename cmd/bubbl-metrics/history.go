package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bubbl-app/bubbl-metrics/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type userDayOutput struct {
	Date        string `json:"date" yaml:"date"`
	ActiveUsers int64  `json:"activeUsers" yaml:"activeUsers"`
	NewUsers    int64  `json:"newUsers" yaml:"newUsers"`
}

type messageDayOutput struct {
	Date  string `json:"date" yaml:"date"`
	Count int64  `json:"count" yaml:"count"`
}

func newHistoryCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print daily user or message history",
	}
	cmd.AddCommand(newHistoryUsersCmd(app), newHistoryMessagesCmd(app))
	return cmd
}

func newHistoryUsersCmd(app *cliApp) *cobra.Command {
	var days int
	var output string

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Daily active and new users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutputFormat(output); err != nil {
				return err
			}
			days = historyDays(days, app.cfg)
			logger, cleanup := configureRuntimeLogger(app.cfg, false)
			defer cleanup()

			client, err := newClient(app.cfg, logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout(app.cfg))
			defer cancel()

			start, end := model.DateWindow(days, time.Now())
			series, err := client.GetMetricsByDateRange(ctx, start, end)
			if err != nil {
				return err
			}
			if series.Empty() && output == "" {
				cmd.Println("No data available for the selected period")
				return nil
			}

			rows := userDayRows(series)
			return printOutput(cmd, output, rows, func() table.Writer {
				return usersTable(rows, days)
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "window length in days (default chart-days)")
	addOutputFlag(cmd, &output)
	return cmd
}

func newHistoryMessagesCmd(app *cliApp) *cobra.Command {
	var days int
	var output string

	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Messages per day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutputFormat(output); err != nil {
				return err
			}
			days = historyDays(days, app.cfg)
			logger, cleanup := configureRuntimeLogger(app.cfg, false)
			defer cleanup()

			client, err := newClient(app.cfg, logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout(app.cfg))
			defer cancel()

			history, err := client.GetMessageHistory(ctx, days)
			if err != nil {
				return err
			}

			rows := messageDayRows(history)
			if len(rows) == 0 && output == "" {
				cmd.Println("No data available for the selected period")
				return nil
			}
			return printOutput(cmd, output, rows, func() table.Writer {
				return messagesTable(rows, days)
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "window length in days (default chart-days)")
	addOutputFlag(cmd, &output)
	return cmd
}

func historyDays(days int, cfg appConfig) int {
	if days > 0 {
		return days
	}
	return cfg.ChartDays
}

func userDayRows(series model.UserActivitySeries) []userDayOutput {
	rows := make([]userDayOutput, 0, len(series.Metrics))
	for _, p := range series.Metrics {
		rows = append(rows, userDayOutput{
			Date:        model.FormatDate(p.Date),
			ActiveUsers: p.ActiveUsers,
			NewUsers:    p.NewUsers,
		})
	}
	return rows
}

func messageDayRows(h model.MessageHistory) []messageDayOutput {
	points := h.Series()
	rows := make([]messageDayOutput, 0, len(points))
	for _, p := range points {
		rows = append(rows, messageDayOutput{Date: p.Day, Count: p.Count})
	}
	return rows
}

func usersTable(rows []userDayOutput, days int) table.Writer {
	tw := newTableWriter()
	tw.SetTitle(fmt.Sprintf("User Activity - Last %d Days", days))
	tw.AppendHeader(table.Row{"DATE", "ACTIVE USERS", "NEW USERS"})
	var newTotal int64
	for _, r := range rows {
		tw.AppendRow(table.Row{r.Date, humanize.Comma(r.ActiveUsers), humanize.Comma(r.NewUsers)})
		newTotal += r.NewUsers
	}
	tw.AppendFooter(table.Row{"TOTAL NEW", "", humanize.Comma(newTotal)})
	return tw
}

func messagesTable(rows []messageDayOutput, days int) table.Writer {
	tw := newTableWriter()
	tw.SetTitle(fmt.Sprintf("Message Activity - Last %d Days", days))
	tw.AppendHeader(table.Row{"DATE", "MESSAGES"})
	var total int64
	for _, r := range rows {
		tw.AppendRow(table.Row{r.Date, humanize.Comma(r.Count)})
		total += r.Count
	}
	tw.AppendFooter(table.Row{"TOTAL", humanize.Comma(total)})
	return tw
}
