package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model. It renders from the model's snapshots only and
// never touches the client, so a slow daemon cannot stall a frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width <= 0 {
		width = defaultViewWidth
	}
	height := m.height
	if height <= 0 {
		height = defaultViewHeight
	}

	header := renderHeader(m, width)
	footer := renderFooter(m, width)

	bodyHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < minBodyHeight {
		bodyHeight = minBodyHeight
	}

	leftWidth := width * leftColumnPercent / 100
	centerWidth := width * centerColumnPercent / 100
	rightWidth := width - leftWidth - centerWidth

	statusHeight := bodyHeight / 2
	left := lipgloss.JoinVertical(
		lipgloss.Left,
		renderStatusPanel(m, leftWidth, statusHeight),
		renderMetricsPanel(m, leftWidth, bodyHeight-statusHeight),
	)
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		left,
		renderControlsPanel(m, centerWidth, bodyHeight),
		renderLogsPanel(m, rightWidth, bodyHeight),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func renderHeader(m Model, width int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorCyan)).
		Bold(true).
		Render(" Daemon Controller ")

	statusText, statusColor := headerStatus(m)
	status := lipgloss.NewStyle().
		Foreground(lipgloss.Color(statusColor)).
		Render(" " + statusText + " ")

	line := title + " | " + status + " | " + " " + m.address + " "

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(colorCyan)).
		Width(width - panelChromeWidth).
		Render(line)
}

// headerStatus picks the connection segment of the header. The error text
// replaces the status word entirely, matching the session state machine
// where StatusError carries its own message.
func headerStatus(m Model) (text, color string) {
	switch m.status {
	case StatusConnected:
		return "Connected", colorGreen
	case StatusConnecting:
		return "Connecting...", colorYellow
	case StatusError:
		return m.errMessage, colorRed
	case StatusDisconnected:
		return "Disconnected", colorRed
	}
	return "Disconnected", colorRed
}

func renderStatusPanel(m Model, width, height int) string {
	var b strings.Builder
	if s := m.daemonStatus; s != nil {
		b.WriteString("State: ")
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGreen)).
			Bold(true).
			Render(m.daemonStateString()))
		b.WriteString("\n")
		fmt.Fprintf(&b, "Version: %s\n", s.Version)
		fmt.Fprintf(&b, "Uptime: %ds\n", s.UptimeSeconds)
		fmt.Fprintf(&b, "Message: %s", s.Message)
	} else {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Render("No data available"))
	}
	return panelFrame(" Status ", m.focused == PanelStatus, width, height, b.String())
}

// renderMetricsPanel is the one panel outside the focus cycle, so its border
// never turns yellow.
func renderMetricsPanel(m Model, width, height int) string {
	gaugeWidth := width - panelChromeWidth
	if gaugeWidth < 1 {
		gaugeWidth = 1
	}

	var b strings.Builder
	if mt := m.daemonMetrics; mt != nil {
		cpu := m.cpuGauge
		cpu.Width = gaugeWidth
		fmt.Fprintf(&b, "CPU: %.1f%%\n", clampPercent(mt.CPUUsagePercent))
		b.WriteString(cpu.ViewAs(gaugeRatio(mt.CPUUsagePercent)))
		b.WriteString("\n")

		mem := m.memGauge
		mem.Width = gaugeWidth
		ratio := memoryRatio(mt.MemoryBytes, mt.MemoryLimitBytes)
		fmt.Fprintf(&b, "Memory: %s / %s (%.1f%%)\n",
			formatBytes(mt.MemoryBytes),
			formatBytes(mt.MemoryLimitBytes),
			ratio*percentScale,
		)
		b.WriteString(mem.ViewAs(ratio))
		b.WriteString("\n")

		fmt.Fprintf(&b, "Connections: %d\n", mt.ConnectionsActive)
		fmt.Fprintf(&b, "Requests: %d\n", mt.RequestsTotal)
		fmt.Fprintf(&b, "Errors: %d", mt.ErrorsTotal)
	} else {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Render("No metrics available"))
	}
	return panelFrame(" Metrics ", false, width, height, b.String())
}

func renderControlsPanel(m Model, width, height int) string {
	focused := m.focused == PanelControls

	var b strings.Builder
	for i, action := range controlActions {
		style := lipgloss.NewStyle()
		switch {
		case i == m.selectedAction && focused:
			style = style.
				Foreground(lipgloss.Color(colorBlack)).
				Background(lipgloss.Color(colorYellow)).
				Bold(true)
		case i == m.selectedAction:
			style = style.
				Foreground(lipgloss.Color(colorYellow)).
				Bold(true)
		}
		b.WriteString(style.Render(fmt.Sprintf("  %s  ", action.Label())))
		if i < len(controlActions)-1 {
			b.WriteString("\n")
		}
	}
	return panelFrame(" Controls ", focused, width, height, b.String())
}

func renderLogsPanel(m Model, width, height int) string {
	window := height - panelChromeHeight - 1
	lines := renderLogWindow(m.logs, m.logScroll, window)
	title := fmt.Sprintf(" Logs (%d) ", len(m.logs))
	return panelFrame(title, m.focused == PanelLogs, width, height, strings.Join(lines, "\n"))
}

func renderFooter(m Model, width int) string {
	h := m.help
	h.Width = width - panelChromeWidth
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Width(width - panelChromeWidth).
		Render(h.View(m.keys))
}

// panelFrame draws one dashboard panel: a bold title line above the content,
// inside a border that turns yellow when the panel holds focus. MaxHeight
// clips overflow so the three columns stay aligned on small terminals.
func panelFrame(title string, focused bool, width, height int, content string) string {
	borderColor := colorWhite
	if focused {
		borderColor = colorYellow
	}

	innerWidth := width - panelChromeWidth
	if innerWidth < 1 {
		innerWidth = 1
	}
	innerHeight := height - panelChromeHeight
	if innerHeight < 1 {
		innerHeight = 1
	}

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render(title),
		content,
	)

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Width(innerWidth).
		Height(innerHeight).
		MaxHeight(height).
		Render(body)
}

// gaugeRatio converts a 0..100 percentage into the 0..1 ratio the progress
// bar expects, clamping out-of-range daemon readings first.
func gaugeRatio(percent float64) float64 {
	return clampPercent(percent) / percentScale
}

func clampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > percentScale {
		return percentScale
	}
	return percent
}

// memoryRatio is used/limit clamped to 0..1. A zero limit reads as 0 rather
// than dividing by it.
func memoryRatio(used, limit uint64) float64 {
	if limit == 0 {
		return 0
	}
	ratio := float64(used) / float64(limit)
	if ratio > 1 {
		return 1
	}
	return ratio
}

// formatBytes renders a byte count with binary units and one decimal, the
// granularity the memory gauge label needs.
func formatBytes(bytes uint64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1fGB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1fMB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1fKB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}
