package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Activity log levels shown in the Logs panel.
const (
	levelInfo  = "INFO"
	levelWarn  = "WARN"
	levelError = "ERROR"
)

// logEntry is one immutable line of the activity log.
type logEntry struct {
	timestamp string
	level     string
	message   string
}

// renderLogWindow renders the visible slice of the activity log: entries
// from scroll onward, at most height lines. The scroll index is the top of
// the window, matching the clamped scroll the key handlers maintain.
func renderLogWindow(logs []logEntry, scroll, height int) []string {
	if height <= 0 || len(logs) == 0 {
		return nil
	}
	if scroll < 0 {
		scroll = 0
	}
	if scroll >= len(logs) {
		scroll = len(logs) - 1
	}
	end := scroll + height
	if end > len(logs) {
		end = len(logs)
	}

	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray))
	lines := make([]string, 0, end-scroll)
	for _, e := range logs[scroll:end] {
		line := timeStyle.Render(fmt.Sprintf("[%s] ", e.timestamp)) +
			levelStyle(e.level).Render(fmt.Sprintf("%-5s ", e.level)) +
			e.message
		lines = append(lines, line)
	}
	return lines
}

// levelStyle colors a level tag: errors red, warnings yellow, info green.
func levelStyle(level string) lipgloss.Style {
	switch level {
	case levelError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	case levelWarn:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow))
	case levelInfo:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray))
	}
}
