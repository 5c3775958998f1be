package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Width(18)
	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

func row(label string, value any) string {
	return labelStyle.Render(label) + fmt.Sprint(value)
}

// summaryLine colours the failed count when there is one.
func summaryLine(s fmt.Stringer, failed int) string {
	if failed > 0 {
		return badStyle.Render(s.String())
	}
	return goodStyle.Render(s.String())
}
