package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/wingman/internal/core/clock"
	"github.com/hay-kot/wingman/internal/core/notify"
	"github.com/hay-kot/wingman/internal/reminder"
)

func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wingman"))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(d.statusLine()))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render(headerStyle.Render("Upcoming")))
	b.WriteString("\n")
	if len(d.items) == 0 {
		b.WriteString(mutedStyle.Render("nothing scheduled for the rest of today"))
		b.WriteString("\n")
	}
	for _, mi := range d.items {
		b.WriteString(renderItem(mi))
		b.WriteString("\n")
	}

	b.WriteString(sectionStyle.Render(headerStyle.Render("Notifications")))
	b.WriteString("\n")
	if len(d.history) == 0 {
		b.WriteString(mutedStyle.Render("no notifications"))
		b.WriteString("\n")
	}
	for _, n := range d.history {
		b.WriteString(renderFeedEntry(n))
		b.WriteString("\n")
	}

	if d.lastError != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(colorError).Render(d.lastError))
		b.WriteString("\n")
	}

	for _, t := range d.toasts.items {
		b.WriteString(renderToast(t.n))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("r refresh • d detect now • x dismiss • c clear feed • q quit"))
	return b.String()
}

func (d *Dashboard) statusLine() string {
	state := "stopped"
	if d.sched.Running {
		state = "running"
	}
	s := fmt.Sprintf("scheduler %s, %d active", state, d.sched.ActiveItems)
	if d.sched.LastCheckTime != "" {
		s += ", checked " + d.sched.LastCheckTime
	}
	if d.detector.Running {
		s += " | detector checked " + d.detector.LastCheckTime
	}
	return s
}

func renderItem(mi reminder.MonitoredItem) string {
	stages := []string{
		stageMark("30m", mi.NotifiedThirtyMin),
		stageMark("5m", mi.NotifiedFiveMin),
	}
	return fmt.Sprintf("%s  %-5s  %s  %s",
		mi.ScheduledTime,
		mi.Kind,
		mi.Title,
		strings.Join(stages, " "),
	)
}

func stageMark(label string, done bool) string {
	if done {
		return okStyle.Render("✓" + label)
	}
	return mutedStyle.Render("·" + label)
}

func renderFeedEntry(n notify.Notification) string {
	stamp := ""
	if !n.CreatedAt.IsZero() {
		stamp = clock.TimeString(n.CreatedAt) + " "
	}
	title := lipgloss.NewStyle().Foreground(levelColor(string(n.Level))).Render(n.Title)
	return mutedStyle.Render(stamp) + title + " " + n.Message
}

func renderToast(n notify.Notification) string {
	style := toastStyle.BorderForeground(levelColor(string(n.Level)))
	return style.Render(n.Title + "\n" + n.Message)
}
