package tui

import "github.com/charmbracelet/lipgloss"

type theme struct {
	Header  lipgloss.Style
	Frame   lipgloss.Style
	Panel   lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Danger  lipgloss.Style
	Input   lipgloss.Style
	Focused lipgloss.Style
	Badge   lipgloss.Style
}

func defaultTheme() theme {
	accent := lipgloss.Color("#2563EB")
	secondary := lipgloss.Color("#7D7D7D")
	success := lipgloss.Color("#15803D")
	danger := lipgloss.Color("#FF0055")

	return theme{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondary).
			Padding(0, 1),
		Muted: lipgloss.NewStyle().
			Foreground(secondary),
		Accent: lipgloss.NewStyle().
			Foreground(accent),
		Success: lipgloss.NewStyle().
			Foreground(success),
		Danger: lipgloss.NewStyle().
			Foreground(danger),
		Input: lipgloss.NewStyle().
			Foreground(accent),
		Focused: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		Badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 1),
	}
}
