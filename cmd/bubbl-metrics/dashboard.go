package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/bubbl-app/bubbl-metrics/internal/browser"
	"github.com/bubbl-app/bubbl-metrics/internal/httpserver"
	"github.com/bubbl-app/bubbl-metrics/internal/poller"
	"github.com/bubbl-app/bubbl-metrics/internal/telemetry"
	"github.com/bubbl-app/bubbl-metrics/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *cliApp) *cobra.Command {
	var withAPI bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Run the interactive dashboard (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(app.cfg, withAPI)
		},
	}
	cmd.Flags().BoolVar(&withAPI, "api", false, "also serve the headless HTTP API on api-addr")
	cmd.Flags().Duration("poll-interval", 0, "time between snapshot polls")
	cmd.Flags().Int("chart-days", 0, "initial chart window in days")
	cmd.Flags().String("export-dir", "", "directory for rewards CSV exports")
	cmd.Flags().String("api-addr", "", "listen address for --api")
	return cmd
}

// runDashboard starts the poller and runs the TUI until the user quits.
func runDashboard(cfg appConfig, withAPI bool) error {
	logger, cleanupLogger := configureRuntimeLogger(cfg, true)
	defer cleanupLogger()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := poller.New(client, poller.Config{
		Interval: cfg.PollInterval,
		Timeout:  cfg.RequestTimeout,
	}, poller.WithLogger(logger), poller.WithObserver(metrics))
	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("failed to start poller: %w", err)
	}
	defer p.Stop()

	if withAPI {
		apiServer := httpserver.NewServer(cfg.APIAddr, p, client,
			httpserver.WithLogger(logger),
			httpserver.WithMetricsHandler(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})),
		)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	dashboard := tui.NewDashboardModel(tui.Config{
		ActiveDays:         cfg.ActiveDays,
		ChartDays:          cfg.ChartDays,
		ExportDir:          cfg.ExportDir,
		OpenBrowser:        cfg.OpenBrowser,
		ReverseScrollWheel: cfg.ReverseScrollWheel,
	}, tui.DashboardDeps{
		Poll:     p,
		Backend:  client,
		Opener:   browser.System,
		Observer: metrics,
		Logger:   logger,
	})
	defer dashboard.Close()

	logger.Info().Str("base_url", client.BaseURL()).Dur("poll_interval", cfg.PollInterval).Msg("dashboard started")

	prog := tea.NewProgram(dashboard, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := prog.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
