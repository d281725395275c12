package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/opsdeck/daemonctl/internal/client"
	"github.com/opsdeck/daemonctl/internal/config"
	"github.com/opsdeck/daemonctl/internal/rpc"
)

// ConnectionStatus tracks the session lifecycle with the daemon. The only
// path into StatusConnected is a successful connect attempt; StatusError is
// left only by a fresh connect attempt.
type ConnectionStatus int

const (
	StatusDisconnected ConnectionStatus = iota
	StatusConnecting
	StatusConnected
	StatusError
)

func (s ConnectionStatus) String() string {
	switch s {
	case StatusConnecting:
		return "Connecting"
	case StatusConnected:
		return "Connected"
	case StatusError:
		return "Error"
	default:
		return "Disconnected"
	}
}

// FocusedPanel is the dashboard region receiving panel-scoped keys.
type FocusedPanel int

const (
	PanelStatus FocusedPanel = iota
	PanelControls
	PanelLogs
)

// panelCount is the size of the focus cycle.
const panelCount = 3

func (p FocusedPanel) String() string {
	switch p {
	case PanelControls:
		return "Controls"
	case PanelLogs:
		return "Logs"
	default:
		return "Status"
	}
}

// next and prev use index arithmetic so the cyclic property holds for any
// member, including ones added later.
func (p FocusedPanel) next() FocusedPanel { return (p + 1) % panelCount }
func (p FocusedPanel) prev() FocusedPanel { return (p + panelCount - 1) % panelCount }

// ControlAction is one lifecycle command the operator can dispatch.
type ControlAction int

const (
	ActionStart ControlAction = iota
	ActionStop
	ActionRestart
	ActionReload
)

// controlActions is the fixed order shown in the Controls panel. Selection
// clamps at the ends; it does not wrap.
//
//nolint:gochecknoglobals // fixed enumeration order, never mutated
var controlActions = [...]ControlAction{ActionStart, ActionStop, ActionRestart, ActionReload}

func (a ControlAction) Label() string {
	switch a {
	case ActionStop:
		return "Stop"
	case ActionRestart:
		return "Restart"
	case ActionReload:
		return "Reload"
	default:
		return "Start"
	}
}

// Command maps the action to its wire code.
func (a ControlAction) Command() rpc.ControlCommand {
	switch a {
	case ActionStop:
		return rpc.CommandStop
	case ActionRestart:
		return rpc.CommandRestart
	case ActionReload:
		return rpc.CommandReload
	default:
		return rpc.CommandStart
	}
}

// Model is the root Bubble Tea model and the sole owner of console state.
// Update is its only mutator; the render side sees consistent snapshots.
type Model struct {
	address string

	status     ConnectionStatus
	errMessage string

	focused        FocusedPanel
	selectedAction int

	daemonStatus  *rpc.StatusResponse
	daemonMetrics *rpc.MetricsResponse

	logs      []logEntry
	logScroll int

	client       client.DaemonClient
	tickInterval time.Duration

	cpuGauge progress.Model
	memGauge progress.Model
	help     help.Model
	keys     keyMap

	width    int
	height   int
	quitting bool
}

// NewModel constructs the initial console state for one daemon address.
func NewModel(c client.DaemonClient, cfg config.Config) Model {
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = defaultTickInterval
	}

	m := Model{
		address:      cfg.Address,
		status:       StatusDisconnected,
		focused:      PanelStatus,
		client:       c,
		tickInterval: interval,
		cpuGauge:     progress.New(progress.WithSolidFill(colorCyan), progress.WithoutPercentage()),
		memGauge:     progress.New(progress.WithSolidFill(colorPink), progress.WithoutPercentage()),
		help:         help.New(),
		keys:         newKeyMap(),
	}
	m.addLog(levelInfo, "Daemon Controller started")
	m.addLog(levelInfo, "Target: "+m.address)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// tickCmd schedules the next refresh tick.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) focusNext() { m.focused = m.focused.next() }
func (m *Model) focusPrev() { m.focused = m.focused.prev() }

func (m *Model) selectPrevAction() {
	if m.selectedAction > 0 {
		m.selectedAction--
	}
}

func (m *Model) selectNextAction() {
	if m.selectedAction < len(controlActions)-1 {
		m.selectedAction++
	}
}

// currentAction never indexes out of range: selection movement clamps to the
// action list's bounds.
func (m *Model) currentAction() ControlAction {
	return controlActions[m.selectedAction]
}

func (m *Model) scrollLogsUp() {
	if m.logScroll > 0 {
		m.logScroll--
	}
}

func (m *Model) scrollLogsDown() {
	if m.logScroll < len(m.logs)-1 {
		m.logScroll++
	}
}

// addLog appends an activity entry, mirrors it to logrus, and sticks the
// log view to the newest line until the operator scrolls again.
func (m *Model) addLog(level, message string) {
	m.logs = append(m.logs, logEntry{
		timestamp: time.Now().Format(timestampLayout),
		level:     level,
		message:   message,
	})
	m.logScroll = len(m.logs) - 1
	mirrorToLogrus(level, message)
}

// mirrorToLogrus copies activity entries to the ambient logger so a
// configured log file records what the operator saw.
func mirrorToLogrus(level, message string) {
	switch level {
	case levelError:
		logrus.Error(message)
	case levelWarn:
		logrus.Warn(message)
	default:
		logrus.Info(message)
	}
}

// setConnectionStatus records a state machine transition. The message is
// meaningful only for StatusError.
func (m *Model) setConnectionStatus(s ConnectionStatus, errMessage string) {
	m.status = s
	m.errMessage = errMessage
}

// daemonStateString renders the status snapshot's state for the Status
// panel: "N/A" without a snapshot, "Invalid" for unknown wire codes.
func (m *Model) daemonStateString() string {
	if m.daemonStatus == nil {
		return "N/A"
	}
	return m.daemonStatus.DaemonState().String()
}
