package tui

import (
	"context"
	"fmt"
)

// connectToDaemon establishes the session. This is the only transition path
// into StatusConnected.
func (m *Model) connectToDaemon(ctx context.Context) {
	if m.client.IsConnected() {
		m.addLog(levelWarn, "Already connected")
		return
	}

	m.setConnectionStatus(StatusConnecting, "")
	m.addLog(levelInfo, "Connecting to daemon...")

	if err := m.client.Connect(ctx); err != nil {
		m.setConnectionStatus(StatusError, "Connection failed")
		m.addLog(levelError, fmt.Sprintf("Connection failed: %v", err))
		return
	}

	m.setConnectionStatus(StatusConnected, "")
	m.addLog(levelInfo, "Connected successfully")
	m.refreshData(ctx)
}

// disconnectFromDaemon drops the session and clears both snapshots, so the
// panels show "No data available" rather than stale numbers.
func (m *Model) disconnectFromDaemon() {
	if !m.client.IsConnected() {
		m.addLog(levelWarn, "Not connected")
		return
	}

	m.client.Disconnect()
	m.setConnectionStatus(StatusDisconnected, "")
	m.daemonStatus = nil
	m.daemonMetrics = nil
	m.addLog(levelInfo, "Disconnected from daemon")
}

// executeAction sends the selected control command and reports the daemon's
// verdict in the activity log. No retry on any failure path.
func (m *Model) executeAction(ctx context.Context) {
	if !m.client.IsConnected() {
		m.addLog(levelWarn, "Not connected - press 'c' to connect")
		return
	}

	action := m.currentAction()
	m.addLog(levelInfo, "Executing: "+action.Label())

	resp, err := m.client.Control(ctx, action.Command())
	if err != nil {
		m.addLog(levelError, fmt.Sprintf("Command failed: %v", err))
		return
	}
	if resp.Success {
		m.addLog(levelInfo, "Success: "+resp.Message)
	} else {
		m.addLog(levelWarn, "Failed: "+resp.Message)
	}
}

// refreshData fetches status then metrics, sequentially. A failed fetch
// logs at ERROR and keeps the previous snapshot; it never changes the
// connection status.
func (m *Model) refreshData(ctx context.Context) {
	status, err := m.client.GetStatus(ctx)
	if err != nil {
		m.addLog(levelError, fmt.Sprintf("Failed to get status: %v", err))
	} else {
		m.daemonStatus = status
	}

	metrics, err := m.client.GetMetrics(ctx)
	if err != nil {
		m.addLog(levelError, fmt.Sprintf("Failed to get metrics: %v", err))
	} else {
		m.daemonMetrics = metrics
	}
}
