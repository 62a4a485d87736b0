package tui

import (
	"slices"

	"github.com/dashviews/dashviews-cli/pkg/personalize"
)

// ModalStack presents workflow dialogs one on top of another. Only the top
// dialog receives keys.
type ModalStack struct {
	modals []*modal
}

type modal struct {
	stack  *ModalStack
	dialog personalize.Dialog
	focus  int
	closed bool
}

// NewModalStack creates an empty stack
func NewModalStack() *ModalStack {
	return &ModalStack{}
}

// Open pushes a dialog and focuses its first enabled button
func (s *ModalStack) Open(d personalize.Dialog) personalize.Modal {
	m := &modal{stack: s, dialog: d}
	m.focus = firstEnabled(d.Buttons)
	s.modals = append(s.modals, m)
	return m
}

// CloseAll dismisses every dialog
func (s *ModalStack) CloseAll() {
	for _, m := range s.modals {
		m.closed = true
	}
	s.modals = nil
}

// Len returns the number of open dialogs
func (s *ModalStack) Len() int {
	return len(s.modals)
}

// Top returns the dialog receiving input
func (s *ModalStack) Top() (personalize.Dialog, bool) {
	if len(s.modals) == 0 {
		return personalize.Dialog{}, false
	}
	return s.modals[len(s.modals)-1].dialog, true
}

// Dialogs returns the open dialogs, bottom first
func (s *ModalStack) Dialogs() []personalize.Dialog {
	out := make([]personalize.Dialog, 0, len(s.modals))
	for _, m := range s.modals {
		out = append(out, m.dialog)
	}
	return out
}

// Focused returns the focused button of the top dialog
func (s *ModalStack) Focused() (personalize.Button, int, bool) {
	m := s.top()
	if m == nil || len(m.dialog.Buttons) == 0 {
		return personalize.Button{}, -1, false
	}
	return m.dialog.Buttons[m.focus], m.focus, true
}

// FocusNext moves the top dialog's focus right, wrapping around. Disabled
// buttons can hold focus so their tooltip is visible.
func (s *ModalStack) FocusNext() {
	if m := s.top(); m != nil && len(m.dialog.Buttons) > 0 {
		m.focus = (m.focus + 1) % len(m.dialog.Buttons)
	}
}

// FocusPrev moves the top dialog's focus left, wrapping around
func (s *ModalStack) FocusPrev() {
	if m := s.top(); m != nil && len(m.dialog.Buttons) > 0 {
		m.focus = (m.focus - 1 + len(m.dialog.Buttons)) % len(m.dialog.Buttons)
	}
}

// FocusAction focuses the top dialog's button bound to a
func (s *ModalStack) FocusAction(a personalize.Action) bool {
	m := s.top()
	if m == nil {
		return false
	}
	for i, b := range m.dialog.Buttons {
		if b.Action == a {
			m.focus = i
			return true
		}
	}
	return false
}

func (s *ModalStack) top() *modal {
	if len(s.modals) == 0 {
		return nil
	}
	return s.modals[len(s.modals)-1]
}

func (s *ModalStack) remove(m *modal) {
	if i := slices.Index(s.modals, m); i >= 0 {
		s.modals = slices.Delete(s.modals, i, i+1)
	}
}

// Render replaces the dialog in place, keeping focus on the same action
func (m *modal) Render(d personalize.Dialog) {
	if m.closed {
		return
	}
	focused := personalize.ActionNone
	if m.focus >= 0 && m.focus < len(m.dialog.Buttons) {
		focused = m.dialog.Buttons[m.focus].Action
	}
	m.dialog = d
	m.focus = firstEnabled(d.Buttons)
	for i, b := range d.Buttons {
		if b.Action == focused {
			m.focus = i
			break
		}
	}
}

// Close removes the dialog from the stack
func (m *modal) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.stack.remove(m)
}

func firstEnabled(buttons []personalize.Button) int {
	for i, b := range buttons {
		if !b.Disabled {
			return i
		}
	}
	return 0
}
