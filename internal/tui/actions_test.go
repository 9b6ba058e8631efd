package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bubbl-app/bubbl-metrics/internal/apiclient"
	"github.com/bubbl-app/bubbl-metrics/internal/model"
	"github.com/bubbl-app/bubbl-metrics/internal/rewards"

	tea "github.com/charmbracelet/bubbletea"
)

func TestExportCSVSavesFile(t *testing.T) {
	backend := &fakeBackend{csv: []byte("phone,amount\n+14155550100,10\n+14155550101,20\n")}
	m := newTestModel(newFakePoll(model.Loading(fixedNow)), backend)
	m.exportDir = t.TempDir()
	obs := &recordingObserver{}
	m.observer = obs

	cmd := m.exportCSV()
	if cmd == nil {
		t.Fatal("export returned nil cmd")
	}
	if !m.actionBusy[rewards.ActionExportCSV] {
		t.Error("export not marked busy")
	}
	if m.exportCSV() == nil || len(m.toasts) != 1 {
		t.Error("second export while busy should only notify")
	}

	res := cmd().(actionResultMsg)
	if res.err != nil {
		t.Fatalf("export failed: %v", res.err)
	}
	if !strings.Contains(res.text, "Saved 2 rewards rows") {
		t.Errorf("text = %q", res.text)
	}

	path := filepath.Join(m.exportDir, rewards.FileName(fixedNow))
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file missing: %v", err)
	}

	m.Update(res)
	if m.actionBusy[rewards.ActionExportCSV] {
		t.Error("busy flag not cleared")
	}
	if len(obs.actions) != 1 || obs.actions[0] != rewards.ActionExportCSV || obs.errs[0] != nil {
		t.Errorf("observer = %+v", obs)
	}
	last := m.toasts[len(m.toasts)-1]
	if last.level != toastSuccess {
		t.Errorf("toast level = %v, want success", last.level)
	}
}

func TestUpdateSheetOpensReturnedLink(t *testing.T) {
	backend := &fakeBackend{sheet: model.SheetResult{SheetURL: "https://docs.google.com/spreadsheets/d/abc"}}
	m := newTestModel(newFakePoll(model.Loading(fixedNow)), backend)
	opener := &recordingOpener{}
	m.opener = opener
	m.openBrowser = true

	res := m.updateSheet(false)().(actionResultMsg)
	if res.err != nil || res.action != rewards.ActionUpdateSheet {
		t.Fatalf("result = %+v", res)
	}
	if len(opener.links) != 1 || opener.links[0] != backend.sheet.SheetURL {
		t.Errorf("opened = %v", opener.links)
	}

	res = m.updateSheet(true)().(actionResultMsg)
	if res.action != rewards.ActionUpdatePublicSheet {
		t.Errorf("action = %q", res.action)
	}
	if backend.sheetCalls != 1 || backend.publicCalls != 1 {
		t.Errorf("sheet calls = %d, public = %d", backend.sheetCalls, backend.publicCalls)
	}
}

func TestUpdateSheetWithoutBrowser(t *testing.T) {
	backend := &fakeBackend{sheet: model.SheetResult{SheetURL: "https://example.com/s"}}
	m := newTestModel(newFakePoll(model.Loading(fixedNow)), backend)
	opener := &recordingOpener{}
	m.opener = opener
	m.openBrowser = false

	res := m.updateSheet(false)().(actionResultMsg)
	if len(opener.links) != 0 {
		t.Error("browser opened while disabled")
	}
	if !strings.Contains(res.text, "https://example.com/s") {
		t.Errorf("text = %q", res.text)
	}
}

func TestMarkPaidFormSubmits(t *testing.T) {
	m := newTestModel(newFakePoll(model.Loading(fixedNow)), &fakeBackend{})

	m.Update(keyRunes("m"))
	form, ok := m.TopModal().(*MarkPaidModal)
	if !ok {
		t.Fatal("mark-paid modal not pushed")
	}

	m.Update(keyRunes("+14155550100"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(keyRunes("june payout"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("submit returned nil cmd")
	}
	submit, ok := cmd().(markPaidSubmitMsg)
	if !ok {
		t.Fatal("submit did not produce markPaidSubmitMsg")
	}
	if submit.Phone != "+14155550100" || submit.Note != "june payout" {
		t.Errorf("submit = %+v", submit)
	}
	if !form.submitting {
		t.Error("form not marked submitting")
	}
}

func TestMarkPaidValidationKeepsFormOpen(t *testing.T) {
	m := newTestModel(newFakePoll(model.Loading(fixedNow)), &fakeBackend{})
	obs := &recordingObserver{}
	m.observer = obs
	m.Update(keyRunes("m"))
	m.actionBusy[rewards.ActionMarkPaid] = true

	verr := &apiclient.Error{Kind: apiclient.KindValidation, Op: "Please enter a phone number"}
	m.Update(actionResultMsg{action: rewards.ActionMarkPaid, err: verr})

	form, ok := m.TopModal().(*MarkPaidModal)
	if !ok {
		t.Fatal("form closed on validation error")
	}
	if form.err != "Please enter a phone number" {
		t.Errorf("form err = %q", form.err)
	}
	if !strings.Contains(m.View(), "Please enter a phone number") {
		t.Error("validation message not rendered")
	}
	if len(obs.actions) != 1 {
		t.Error("validation failure not observed")
	}

	m.Update(actionResultMsg{action: rewards.ActionMarkPaid, text: "Marked +14155550100 as paid"})
	if m.HasModal() {
		t.Error("form not closed on success")
	}
	if last := m.toasts[len(m.toasts)-1]; last.text != "Marked +14155550100 as paid" {
		t.Errorf("toast = %q", last.text)
	}
}

func TestMarkPaidCallsBackend(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(newFakePoll(model.Loading(fixedNow)), backend)

	res := m.markPaid("+14155550100", "")().(actionResultMsg)
	if res.err != nil {
		t.Fatalf("mark paid failed: %v", res.err)
	}
	if res.action != rewards.ActionMarkPaid {
		t.Errorf("action = %q", res.action)
	}
	if len(backend.markPaidArgs) != 1 || backend.markPaidArgs[0] != "+14155550100|" {
		t.Errorf("args = %v", backend.markPaidArgs)
	}
}

func TestActionErrorNotifies(t *testing.T) {
	m := newTestModel(newFakePoll(model.Loading(fixedNow)), &fakeBackend{})

	m.Update(actionResultMsg{action: rewards.ActionUpdateSheet, err: &apiclient.Error{Kind: apiclient.KindStatus, Op: "Failed to update Google Sheet", Status: 500}})

	if len(m.toasts) != 1 || m.toasts[0].level != toastError {
		t.Fatalf("toasts = %+v", m.toasts)
	}
	if m.toasts[0].text != "Failed to update Google Sheet (HTTP 500)" {
		t.Errorf("toast = %q", m.toasts[0].text)
	}
}

func TestToastsExpireAndCap(t *testing.T) {
	m := newTestModel(newFakePoll(model.Loading(fixedNow)), &fakeBackend{})

	for i := 0; i < maxToasts+2; i++ {
		m.notify(toastInfo, "n")
	}
	if len(m.toasts) != maxToasts {
		t.Fatalf("toasts = %d, want %d", len(m.toasts), maxToasts)
	}

	id := m.toasts[0].id
	m.Update(toastExpireMsg{id: id})
	if len(m.toasts) != maxToasts-1 {
		t.Errorf("toast %d not expired", id)
	}
	m.Update(toastExpireMsg{id: 999})
	if len(m.toasts) != maxToasts-1 {
		t.Error("unknown id removed a toast")
	}
}
