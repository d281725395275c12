package client

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel and typed errors for transport-level reporting.
var ErrNotConnected = errors.New("not connected to daemon")

// ConnectError reports a failed session establishment against an address.
type ConnectError struct {
	Address string
	Err     error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connecting to %s: %v", e.Address, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// RPCError wraps a transport failure from a single unary call.
type RPCError struct {
	Method string // full method path
	Err    error
}

func (e *RPCError) Error() string {
	m := e.Method
	if i := strings.LastIndexByte(m, '/'); i >= 0 {
		m = m[i+1:]
	}
	return fmt.Sprintf("%s: %v", m, e.Err)
}

func (e *RPCError) Unwrap() error { return e.Err }
