package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderHeader draws the title on the left and the server/user on the right
func renderHeader(width int, title, right string) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	rightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDim))

	left := titleStyle.Render(title)
	r := rightStyle.Render(right)

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(r)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().Width(gap).Render(""), r))
}
