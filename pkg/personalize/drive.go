package personalize

import tea "github.com/charmbracelet/bubbletea"

// Drive runs cmd, and every command the workflow returns in response, on the
// calling goroutine until nothing is left to do. Hosts without a bubbletea
// program (the command line, tests) use it in place of an event loop.
func Drive(w *Workflow, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg := next()
		switch msg := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			if follow := w.Update(msg); follow != nil {
				queue = append(queue, follow)
			}
		}
	}
}
