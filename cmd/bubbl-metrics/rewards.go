package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bubbl-app/bubbl-metrics/internal/apiclient"
	"github.com/bubbl-app/bubbl-metrics/internal/browser"
	"github.com/bubbl-app/bubbl-metrics/internal/model"
	"github.com/bubbl-app/bubbl-metrics/internal/rewards"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newRewardsCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "Ambassador rewards administration",
	}
	cmd.AddCommand(
		newRewardsCSVCmd(app),
		newRewardsSheetCmd(app),
		newRewardsMarkPaidCmd(app),
	)
	return cmd
}

func newRewardsCSVCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Download the rewards CSV into export-dir",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, cleanup := configureRuntimeLogger(app.cfg, false)
			defer cleanup()

			client, err := newClient(app.cfg, logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout(app.cfg))
			defer cancel()

			data, err := client.GenerateRewardsCSV(ctx)
			if err != nil {
				return err
			}
			export, err := rewards.SaveCSV(app.cfg.ExportDir, data, time.Now())
			if err != nil {
				return err
			}
			logger.Info().Str("action", rewards.ActionExportCSV).Str("path", export.Path).Int("rows", export.Rows).Msg("rewards csv saved")
			cmd.Printf("Saved %d rewards rows to %s\n", export.Rows, export.Path)
			return nil
		},
	}
	cmd.Flags().String("export-dir", "", "directory for the exported CSV")
	return cmd
}

func newRewardsSheetCmd(app *cliApp) *cobra.Command {
	var public bool
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Regenerate the rewards Google Sheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, cleanup := configureRuntimeLogger(app.cfg, false)
			defer cleanup()

			client, err := newClient(app.cfg, logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout(app.cfg))
			defer cancel()

			update, label := client.UpdateGoogleSheet, "Google Sheet"
			if public {
				update, label = client.UpdatePublicGoogleSheet, "Public Google Sheet"
			}
			res, err := update(ctx)
			if err != nil {
				return err
			}
			return reportSheet(cmd, res, label, app.cfg.OpenBrowser && !noBrowser, browser.System)
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "update the public sheet")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "do not open the returned sheet link")
	return cmd
}

func reportSheet(cmd *cobra.Command, res model.SheetResult, label string, open bool, opener browser.Opener) error {
	if res.SheetURL == "" {
		cmd.Printf("%s updated\n", label)
		return nil
	}
	cmd.Printf("%s updated: %s\n", label, res.SheetURL)
	if open {
		if err := opener.Open(res.SheetURL); err != nil {
			cmd.PrintErrf("Warning: could not open browser: %v\n", err)
		}
	}
	return nil
}

func newRewardsMarkPaidCmd(app *cliApp) *cobra.Command {
	var phone, note string
	var yes bool

	cmd := &cobra.Command{
		Use:   "mark-paid",
		Short: "Record an ambassador payout",
		Long:  "Record a payout for the ambassador with the given phone number.\nEach call records a new payout; it is not idempotent.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, cleanup := configureRuntimeLogger(app.cfg, false)
			defer cleanup()

			client, err := newClient(app.cfg, logger)
			if err != nil {
				return err
			}

			phone = strings.TrimSpace(phone)
			if phone == "" {
				if err := promptMarkPaid(client, &phone, &note); err != nil {
					return err
				}
			} else if err := client.ValidateMarkPaid(model.MarkPaidRequest{Phone: phone, Note: note}); err != nil {
				return err
			}

			if !yes {
				ok, err := confirmMarkPaid(phone)
				if err != nil {
					return err
				}
				if !ok {
					cmd.Println("Cancelled.")
					return nil
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout(app.cfg))
			defer cancel()

			if err := client.MarkAmbassadorPaid(ctx, phone, note); err != nil {
				return err
			}
			logger.Info().Str("action", rewards.ActionMarkPaid).Str("phone", phone).Msg("ambassador marked paid")
			cmd.Printf("Marked %s as paid\n", phone)
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "ambassador phone number with country code (e.g. +1234567890)")
	cmd.Flags().StringVar(&note, "note", "", "optional note stored with the payout")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// promptMarkPaid asks for the payout details, validating as the user types.
func promptMarkPaid(client *apiclient.Client, phone, note *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Phone number").
				Description("With country code, e.g. +1234567890").
				Value(phone).
				Validate(func(s string) error {
					return client.ValidateMarkPaid(model.MarkPaidRequest{Phone: strings.TrimSpace(s)})
				}),
			huh.NewText().
				Title("Note").
				Description("Optional").
				CharLimit(500).
				Value(note),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("couldn't get your input: %w", err)
	}
	*phone = strings.TrimSpace(*phone)
	return client.ValidateMarkPaid(model.MarkPaidRequest{Phone: *phone, Note: *note})
}

func confirmMarkPaid(phone string) (bool, error) {
	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Mark %s as paid?", phone)).
				Description("This records a new payout every time").
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("couldn't get your input: %w", err)
	}
	return confirm, nil
}
