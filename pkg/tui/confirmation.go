package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dashviews/dashviews-cli/pkg/personalize"
)

const defaultDialogWidth = 64

// DialogRender holds what a dialog box needs besides the dialog itself
type DialogRender struct {
	Width   int    // outer width including the border
	Focus   int    // index of the focused button, -1 for none
	Body    string // pre-rendered body; empty renders Dialog.Body.Text()
	Busy    string // spinner frame and label shown above the buttons
	Focused bool   // the dialog is on top of the stack
}

// renderDialog draws a bordered dialog: title, body, an optional busy line,
// the button row and the focused button's tooltip
func renderDialog(d personalize.Dialog, r DialogRender) string {
	width := r.Width
	if width <= 0 {
		width = defaultDialogWidth
	}
	contentWidth := width - 4 // border and padding

	border := InactiveBorderStyle
	if r.Focused {
		border = ActiveBorderStyle
	}

	var b strings.Builder

	title := lipgloss.NewStyle().
		Width(contentWidth).
		Align(lipgloss.Center).
		Render(HeaderStyle.Render(d.Title))
	b.WriteString(title)
	b.WriteString("\n\n")

	body := r.Body
	if body == "" {
		body = wordwrap.String(d.Body.Text(), contentWidth)
		if d.Body.Kind == personalize.BodyDeleteError {
			body = ErrorStyle.Render(body)
		}
	}
	b.WriteString(body)
	b.WriteString("\n")

	if r.Busy != "" {
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render(r.Busy))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(contentWidth).
		Align(lipgloss.Center).
		Render(renderButtons(d.Buttons, r.Focus)))

	if r.Focus >= 0 && r.Focus < len(d.Buttons) {
		if btn := d.Buttons[r.Focus]; btn.Disabled && btn.Tooltip != "" {
			b.WriteString("\n")
			b.WriteString(DescriptionStyle.Render(wordwrap.String(btn.Tooltip, contentWidth)))
		}
	}

	return border.
		Width(width - 2).
		Padding(0, 1).
		Render(b.String())
}

func renderButtons(buttons []personalize.Button, focus int) string {
	parts := make([]string, 0, len(buttons))
	for i, btn := range buttons {
		label := "[ " + btn.Label + " ]"
		switch {
		case btn.Disabled:
			parts = append(parts, disabledButtonStyle.Render(label))
		case i == focus && isDestructive(btn.Action):
			parts = append(parts, dangerButtonStyle.Render(label))
		case i == focus:
			parts = append(parts, focusedButtonStyle.Render(label))
		default:
			parts = append(parts, buttonStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func isDestructive(a personalize.Action) bool {
	return a == personalize.ActionDelete || a == personalize.ActionConfirmDelete
}
