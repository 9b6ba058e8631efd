package main

import (
	"time"

	"github.com/bubbl-app/bubbl-metrics/internal/apiclient"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cliApp carries the loaded configuration between cobra hooks and commands.
type cliApp struct {
	configPath string
	cfg        appConfig
}

func newRootCmd() *cobra.Command {
	app := &cliApp{}

	root := &cobra.Command{
		Use:           "bubbl-metrics",
		Short:         "Terminal dashboard for the Bubbl metrics backend",
		Long:          "bubbl-metrics polls the Bubbl metrics backend and renders user, group and message\nactivity in the terminal. It can also serve the latest snapshot over HTTP and\nrun the rewards administration actions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := loadConfig(app.configPath, cmd)
			if err != nil {
				return err
			}
			app.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(app.cfg, false)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&app.configPath, "config", "", "config file (default is $HOME/.config/bubbl-metrics/config.yml)")
	pf.String("base-url", "", "metrics backend base URL")
	pf.String("log-level", "", "log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newDashboardCmd(app),
		newServeCmd(app),
		newSnapshotCmd(app),
		newHistoryCmd(app),
		newRewardsCmd(app),
		newConfigCmd(app),
		newVersionCmd(),
	)
	return root
}

// newClient builds the backend client from the loaded configuration.
func newClient(cfg appConfig, logger zerolog.Logger) (*apiclient.Client, error) {
	return apiclient.New(cfg.BaseURL,
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithActiveDays(cfg.ActiveDays),
		apiclient.WithLogger(logger),
	)
}

// commandTimeout bounds one-shot commands that make several requests.
func commandTimeout(cfg appConfig) time.Duration {
	return 3 * cfg.RequestTimeout
}
