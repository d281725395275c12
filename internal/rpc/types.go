// Package rpc defines the wire contract spoken between daemonctl and a
// daemon: message types, enum codes, the JSON codec, and the gRPC service
// descriptor shared by the client and any in-process server.
package rpc

// DaemonState is the lifecycle state reported by GetStatus.
type DaemonState int32

const (
	StateUnknown DaemonState = iota
	StateStarting
	StateRunning
	StateStopping
	StateStopped
	StateError
)

// StateInvalid marks wire values outside the known code range. Unknown codes
// from a newer daemon must render, not fail decoding.
const StateInvalid DaemonState = -1

// DaemonStateFromCode maps a raw wire code to a DaemonState, folding
// anything outside the known set into StateInvalid.
func DaemonStateFromCode(code int32) DaemonState {
	if code < int32(StateUnknown) || code > int32(StateError) {
		return StateInvalid
	}
	return DaemonState(code)
}

func (s DaemonState) String() string {
	switch s {
	case StateUnknown:
		return "Unknown"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	case StateError:
		return "Error"
	default:
		return "Invalid"
	}
}

// ControlCommand is the wire code for a lifecycle command.
type ControlCommand int32

const (
	CommandUnspecified ControlCommand = iota
	CommandStart
	CommandStop
	CommandRestart
	CommandReload
)

func (c ControlCommand) String() string {
	switch c {
	case CommandStart:
		return "Start"
	case CommandStop:
		return "Stop"
	case CommandRestart:
		return "Restart"
	case CommandReload:
		return "Reload"
	default:
		return "Unspecified"
	}
}

type StatusRequest struct{}

type StatusResponse struct {
	State         int32  `json:"state"`
	Version       string `json:"version"`
	UptimeSeconds uint64 `json:"uptime_seconds"`
	Message       string `json:"message"`
}

// DaemonState decodes the raw state code, never failing on unknown values.
func (r *StatusResponse) DaemonState() DaemonState {
	return DaemonStateFromCode(r.State)
}

type MetricsRequest struct{}

type MetricsResponse struct {
	CPUUsagePercent   float64 `json:"cpu_usage_percent"`
	MemoryBytes       uint64  `json:"memory_bytes"`
	MemoryLimitBytes  uint64  `json:"memory_limit_bytes"`
	ConnectionsActive uint32  `json:"connections_active"`
	RequestsTotal     uint64  `json:"requests_total"`
	ErrorsTotal       uint64  `json:"errors_total"`
}

type ControlRequest struct {
	Command int32 `json:"command"`
}

type ControlResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
