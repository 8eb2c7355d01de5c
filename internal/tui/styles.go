// Package tui implements the Bubble Tea dashboard for wingman: the
// scheduler's working set, detector status and the in-app notification feed.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#7aa2f7")
	colorMuted   = lipgloss.Color("#565f89")
	colorInfo    = lipgloss.Color("#7dcfff")
	colorWarning = lipgloss.Color("#e0af68")
	colorError   = lipgloss.Color("#f7768e")
	colorOK      = lipgloss.Color("#9ece6a")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	okStyle      = lipgloss.NewStyle().Foreground(colorOK)
	sectionStyle = lipgloss.NewStyle().MarginTop(1)
	helpStyle    = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(48)
)

func levelColor(level string) lipgloss.Color {
	switch level {
	case "error":
		return colorError
	case "warning":
		return colorWarning
	default:
		return colorInfo
	}
}
