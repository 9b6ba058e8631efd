package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bubbl-app/bubbl-metrics/internal/httpserver"
	"github.com/bubbl-app/bubbl-metrics/internal/poller"
	"github.com/bubbl-app/bubbl-metrics/internal/telemetry"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Poll the backend headlessly and serve the latest snapshot over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(app.cfg)
		},
	}
	cmd.Flags().String("api-addr", "", "listen address of the HTTP API")
	cmd.Flags().Duration("poll-interval", 0, "time between snapshot polls")
	return cmd
}

// runServe polls the backend and serves the HTTP API until SIGINT/SIGTERM.
func runServe(cfg appConfig) error {
	logger, cleanupLogger := configureRuntimeLogger(cfg, false)
	defer cleanupLogger()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now, not at boot.
		deadline := time.NewTimer(shutdownTimeout)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	p := poller.New(client, poller.Config{
		Interval: cfg.PollInterval,
		Timeout:  cfg.RequestTimeout,
	}, poller.WithLogger(logger), poller.WithObserver(metrics))

	apiServer := httpserver.NewServer(cfg.APIAddr, p, client,
		httpserver.WithLogger(logger),
		httpserver.WithMetricsHandler(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})),
	)
	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("failed to start poller: %w", err)
	}
	if err := apiServer.Start(); err != nil {
		p.Stop()
		return fmt.Errorf("failed to start API server: %w", err)
	}

	printStartupBanner(cfg, apiServer.Addr())

	// Use errgroup for concurrent goroutine lifecycle management.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		p.Stop()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		if err := apiServer.Stop(); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stopping API server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("serve: shutdown error")
		return err
	}

	logger.Info().Msg("serve: stopped")
	return nil
}

func printStartupBanner(cfg appConfig, addr string) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	orange := lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	var lines []string
	lines = append(lines, "")
	lines = append(lines, "    "+orange.Bold(true).Render("Bubbl Metrics")+" "+dim.Render("v"+version))
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Backend"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  Base URL       %s", check, cyan.Render(cfg.BaseURL)))
	lines = append(lines, fmt.Sprintf("    %s  Poll Interval  %s", check, dim.Render(cfg.PollInterval.String())))
	lines = append(lines, fmt.Sprintf("    %s  Timeout        %s", check, dim.Render(cfg.RequestTimeout.String())))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Gateway"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render("http://"+addr+"/api/snapshot")))
	lines = append(lines, fmt.Sprintf("    %s  Metrics        %s", check, cyan.Render("http://"+addr+"/metrics")))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
