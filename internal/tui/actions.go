package tui

import (
	"context"
	"fmt"

	"github.com/bubbl-app/bubbl-metrics/internal/apiclient"
	"github.com/bubbl-app/bubbl-metrics/internal/model"
	"github.com/bubbl-app/bubbl-metrics/internal/rewards"

	tea "github.com/charmbracelet/bubbletea"
)

// actionTimeout bounds a rewards action; CSV generation can be slow.
const actionTimeout = 3 * model.DefaultRequestTimeout

// actionResultMsg reports the outcome of a rewards action.
type actionResultMsg struct {
	action string
	text   string
	err    error
}

// markPaidSubmitMsg is sent by the mark-paid modal.
type markPaidSubmitMsg struct {
	Phone string
	Note  string
}

// startAction runs fn once at a time per action name.
func (m *DashboardModel) startAction(action string, fn func(ctx context.Context) (string, error)) tea.Cmd {
	if m.backend == nil {
		return nil
	}
	if m.actionBusy[action] {
		return m.notify(toastInfo, "Still working on the previous request...")
	}
	m.actionBusy[action] = true
	m.log.Info().Str("action", action).Msg("rewards action started")

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		text, err := fn(ctx)
		return actionResultMsg{action: action, text: text, err: err}
	}
}

func (m *DashboardModel) exportCSV() tea.Cmd {
	backend, dir, now := m.backend, m.exportDir, m.now
	return m.startAction(rewards.ActionExportCSV, func(ctx context.Context) (string, error) {
		data, err := backend.GenerateRewardsCSV(ctx)
		if err != nil {
			return "", err
		}
		export, err := rewards.SaveCSV(dir, data, now())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Saved %d rewards rows to %s", export.Rows, export.Path), nil
	})
}

func (m *DashboardModel) updateSheet(public bool) tea.Cmd {
	backend, opener, openBrowser := m.backend, m.opener, m.openBrowser
	action, label := rewards.ActionUpdateSheet, "Google Sheet"
	if public {
		action, label = rewards.ActionUpdatePublicSheet, "Public Google Sheet"
	}

	return m.startAction(action, func(ctx context.Context) (string, error) {
		update := backend.UpdateGoogleSheet
		if public {
			update = backend.UpdatePublicGoogleSheet
		}
		res, err := update(ctx)
		if err != nil {
			return "", err
		}
		if res.SheetURL == "" {
			return label + " updated", nil
		}
		if openBrowser {
			if err := opener.Open(res.SheetURL); err != nil {
				return fmt.Sprintf("%s updated: %s (could not open browser: %v)", label, res.SheetURL, err), nil
			}
		}
		return fmt.Sprintf("%s updated: %s", label, res.SheetURL), nil
	})
}

func (m *DashboardModel) markPaid(phone, note string) tea.Cmd {
	backend := m.backend
	return m.startAction(rewards.ActionMarkPaid, func(ctx context.Context) (string, error) {
		if err := backend.MarkAmbassadorPaid(ctx, phone, note); err != nil {
			return "", err
		}
		return fmt.Sprintf("Marked %s as paid", phone), nil
	})
}

// handleActionResult clears the busy flag, records the outcome and reports
// it. Validation failures of mark-paid stay in the open form.
func (m *DashboardModel) handleActionResult(msg actionResultMsg) tea.Cmd {
	delete(m.actionBusy, msg.action)
	if m.observer != nil {
		m.observer.ObserveAction(msg.action, msg.err)
	}

	if msg.action == rewards.ActionMarkPaid {
		if form, ok := m.TopModal().(*MarkPaidModal); ok {
			if msg.err != nil && apiclient.IsKind(msg.err, apiclient.KindValidation) {
				form.SetError(msg.err.Error())
				return nil
			}
			m.PopModal()
		}
	}

	if msg.err != nil {
		m.log.Error().Err(msg.err).Str("action", msg.action).Msg("rewards action failed")
		return m.notify(toastError, msg.err.Error())
	}
	m.log.Info().Str("action", msg.action).Msg(msg.text)
	return m.notify(toastSuccess, msg.text)
}
