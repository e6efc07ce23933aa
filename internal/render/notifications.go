package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spigell/doc-matcher/internal/notify"
)

var noticeStyles = map[notify.Level]lipgloss.Style{
	notify.LevelError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	notify.LevelSuccess: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34")),
	notify.LevelInfo:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
}

// Notifications renders one line per notification, "Title: description".
func Notifications(ns []notify.Notification) string {
	lines := make([]string, 0, len(ns))
	for _, n := range ns {
		style, ok := noticeStyles[n.Level]
		if !ok {
			style = noticeStyles[notify.LevelInfo]
		}

		line := style.Render(n.Title)
		if n.Description != "" {
			line += " " + n.Description
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
