package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxNoteLength = 500

// MarkPaidModal collects the phone number and note of an ambassador payout.
type MarkPaidModal struct {
	ctx        ModalContext
	phone      textinput.Model
	note       textinput.Model
	focus      int // 0 phone, 1 note
	submitting bool
	err        string
}

func NewMarkPaidModal(ctx ModalContext) *MarkPaidModal {
	phone := textinput.New()
	phone.Placeholder = "+1234567890"
	phone.Prompt = "Phone: "
	phone.CharLimit = 20
	phone.Focus()

	note := textinput.New()
	note.Placeholder = "optional"
	note.Prompt = "Note:  "
	note.CharLimit = maxNoteLength

	return &MarkPaidModal{ctx: ctx, phone: phone, note: note}
}

func (p *MarkPaidModal) ID() string { return "mark-paid" }

// SetError shows a validation message and re-enables the form.
func (p *MarkPaidModal) SetError(msg string) {
	p.err = msg
	p.submitting = false
}

func (p *MarkPaidModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}

	switch keyMsg.String() {
	case "esc", "escape":
		return true, nil
	case "tab", "shift+tab", "up", "down":
		if p.submitting {
			return false, nil
		}
		p.toggleFocus()
		return false, textinput.Blink
	case "enter":
		if p.submitting {
			return false, nil
		}
		if p.focus == 0 {
			p.toggleFocus()
			return false, textinput.Blink
		}
		p.submitting = true
		p.err = ""
		phone := strings.TrimSpace(p.phone.Value())
		note := strings.TrimSpace(p.note.Value())
		return false, func() tea.Msg {
			return markPaidSubmitMsg{Phone: phone, Note: note}
		}
	}

	if p.submitting {
		return false, nil
	}
	var cmd tea.Cmd
	if p.focus == 0 {
		p.phone, cmd = p.phone.Update(msg)
	} else {
		p.note, cmd = p.note.Update(msg)
	}
	return false, cmd
}

func (p *MarkPaidModal) toggleFocus() {
	if p.focus == 0 {
		p.focus = 1
		p.phone.Blur()
		p.note.Focus()
		return
	}
	p.focus = 0
	p.note.Blur()
	p.phone.Focus()
}

func (p *MarkPaidModal) View(width, height int) string {
	modalWidth := min(70, width-8)
	p.phone.Width = max(10, modalWidth-14)
	p.note.Width = max(10, modalWidth-14)

	lines := []string{
		"",
		p.phone.View(),
		p.note.View(),
		"",
	}
	switch {
	case p.submitting:
		lines = append(lines, helpStyle.Render(spinnerFrame()+" Saving..."))
	case p.err != "":
		lines = append(lines, errorStyle.Render(p.err))
	default:
		lines = append(lines, "")
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	status := renderModalStatusBar("Tab: Next field", "Enter: Submit", "ESC: Cancel")
	return renderModalFrame("Mark Ambassador Paid", body, status, width, height, modalWidth, 10)
}
