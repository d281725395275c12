package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model. Any RPC a key or tick triggers runs to
// completion before this returns; events arriving meanwhile queue in the
// program's channel and are processed afterward in arrival order, so only
// one call is ever in flight.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch x := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(x)

	case tickMsg:
		// Re-arm before refreshing so the next deadline counts from this
		// tick's consumption, not its scheduling.
		cmd := m.tickCmd()
		if m.client.IsConnected() {
			m.refreshData(context.Background())
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		return m, nil

	case tea.MouseMsg:
		// Mouse capture keeps the alt screen from scrolling; the events
		// themselves are unused.
		return m, nil
	}

	return m, nil
}

// handleKey dispatches global bindings first, in fixed priority order. A
// matched global binding means panel-scoped bindings never see the key.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Interrupt):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.FocusNext):
		m.focusNext()
		return m, nil

	case key.Matches(msg, m.keys.FocusPrev):
		m.focusPrev()
		return m, nil

	case key.Matches(msg, m.keys.Connect):
		m.connectToDaemon(context.Background())
		return m, nil

	case key.Matches(msg, m.keys.Disconnect):
		m.disconnectFromDaemon()
		return m, nil
	}

	switch m.focused {
	case PanelControls:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.selectPrevAction()
		case key.Matches(msg, m.keys.Down):
			m.selectNextAction()
		case key.Matches(msg, m.keys.Confirm):
			m.executeAction(context.Background())
		}

	case PanelLogs:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.scrollLogsUp()
		case key.Matches(msg, m.keys.Down):
			m.scrollLogsDown()
		}

	case PanelStatus:
		// No panel-local bindings.
	}

	return m, nil
}
