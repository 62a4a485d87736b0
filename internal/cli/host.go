package cli

import (
	"github.com/sirupsen/logrus"

	"github.com/dashviews/dashviews-cli/pkg/personalize"
)

// Host is a dialog host for non-interactive commands. It records the
// dialogs a workflow opens so the command can print them and answer them
// with Confirm.
type Host struct {
	log    logrus.FieldLogger
	modals []*hostModal
}

type hostModal struct {
	host   *Host
	dialog personalize.Dialog
	closed bool
}

// NewHost creates a host that traces dialogs to log
func NewHost(log logrus.FieldLogger) *Host {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Host{log: log}
}

// Open records a dialog
func (h *Host) Open(d personalize.Dialog) personalize.Modal {
	m := &hostModal{host: h, dialog: d}
	h.modals = append(h.modals, m)
	h.log.WithField("dialog", d.Title).Debugln("cli: dialog opened")
	return m
}

// CloseAll dismisses every recorded dialog
func (h *Host) CloseAll() {
	for _, m := range h.modals {
		m.closed = true
	}
	h.modals = nil
}

// Top returns the most recently opened dialog still open
func (h *Host) Top() (personalize.Dialog, bool) {
	if len(h.modals) == 0 {
		return personalize.Dialog{}, false
	}
	return h.modals[len(h.modals)-1].dialog, true
}

// Len returns the number of dialogs still open
func (h *Host) Len() int {
	return len(h.modals)
}

func (m *hostModal) Render(d personalize.Dialog) {
	if !m.closed {
		m.dialog = d
	}
}

func (m *hostModal) Close() {
	if m.closed {
		return
	}
	m.closed = true
	for i, other := range m.host.modals {
		if other == m {
			m.host.modals = append(m.host.modals[:i], m.host.modals[i+1:]...)
			break
		}
	}
}
