// Package daemontest provides an in-process daemon speaking the control
// protocol, for exercising the console and client against a live gRPC
// endpoint without a real daemon.
package daemontest

import (
	"context"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"

	"github.com/opsdeck/daemonctl/internal/rpc"
)

const bufListenerSize = 1 << 20

// Server is a scriptable daemon. Unscripted responses describe a healthy
// Running daemon with host-sampled metrics; tests override any part of it.
type Server struct {
	mu sync.Mutex

	status        *rpc.StatusResponse
	metrics       *rpc.MetricsResponse
	controlResult *rpc.ControlResponse

	statusErr  error
	metricsErr error
	controlErr error

	statusDelay time.Duration

	started time.Time

	// Tracking for assertions
	StatusCalls  int
	MetricsCalls int
	ControlCalls []rpc.ControlCommand
	SessionIDs   []string
}

// NewServer creates a scriptable daemon with default healthy behavior.
func NewServer() *Server {
	return &Server{started: time.Now()}
}

// SetStatus pins the GetStatus response.
func (s *Server) SetStatus(resp *rpc.StatusResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = resp
	s.statusErr = nil
}

// SetMetrics pins the GetMetrics response.
func (s *Server) SetMetrics(resp *rpc.MetricsResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = resp
	s.metricsErr = nil
}

// SetControlResult pins the Control verdict.
func (s *Server) SetControlResult(resp *rpc.ControlResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controlResult = resp
	s.controlErr = nil
}

// FailStatus makes GetStatus return err until reset via SetStatus.
func (s *Server) FailStatus(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusErr = err
}

// SetStatusDelay makes GetStatus stall before answering, for exercising
// call timeouts.
func (s *Server) SetStatusDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusDelay = d
}

// FailMetrics makes GetMetrics return err until reset via SetMetrics.
func (s *Server) FailMetrics(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metricsErr = err
}

// FailControl makes Control return err until reset via SetControlResult.
func (s *Server) FailControl(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controlErr = err
}

// GetStatus implements rpc.DaemonServer.
func (s *Server) GetStatus(ctx context.Context, _ *rpc.StatusRequest) (*rpc.StatusResponse, error) {
	s.mu.Lock()
	s.StatusCalls++
	s.recordSession(ctx)
	delay := s.statusDelay
	pinned := s.status
	err := s.statusErr
	started := s.started
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	if pinned != nil {
		resp := *pinned
		return &resp, nil
	}
	return &rpc.StatusResponse{
		State:         int32(rpc.StateRunning),
		Version:       "daemontest",
		UptimeSeconds: uint64(time.Since(started).Seconds()),
		Message:       "running normally",
	}, nil
}

// GetMetrics implements rpc.DaemonServer.
func (s *Server) GetMetrics(ctx context.Context, _ *rpc.MetricsRequest) (*rpc.MetricsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MetricsCalls++
	s.recordSession(ctx)

	if s.metricsErr != nil {
		return nil, s.metricsErr
	}
	if s.metrics != nil {
		resp := *s.metrics
		return &resp, nil
	}

	resp := LiveMetrics(ctx)
	resp.ConnectionsActive = 1
	resp.RequestsTotal = uint64(s.StatusCalls + s.MetricsCalls + len(s.ControlCalls))
	return resp, nil
}

// Control implements rpc.DaemonServer.
func (s *Server) Control(ctx context.Context, req *rpc.ControlRequest) (*rpc.ControlResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmd := rpc.ControlCommand(req.Command)
	s.ControlCalls = append(s.ControlCalls, cmd)
	s.recordSession(ctx)

	if s.controlErr != nil {
		return nil, s.controlErr
	}
	if s.controlResult != nil {
		resp := *s.controlResult
		return &resp, nil
	}
	return &rpc.ControlResponse{Success: true, Message: cmd.String() + " acknowledged"}, nil
}

func (s *Server) recordSession(ctx context.Context) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return
	}
	if ids := md.Get(rpc.SessionMetadataKey); len(ids) > 0 {
		s.SessionIDs = append(s.SessionIDs, ids[0])
	}
}

// BufServer bundles a Server with an in-memory listener, so tests can run a
// full client/server exchange without touching the network stack.
type BufServer struct {
	Daemon *Server

	lis  *bufconn.Listener
	grpc *grpc.Server
}

// StartBuf serves a fresh scriptable daemon on an in-memory listener.
func StartBuf() *BufServer {
	b := &BufServer{
		Daemon: NewServer(),
		lis:    bufconn.Listen(bufListenerSize),
		grpc:   grpc.NewServer(),
	}
	rpc.RegisterDaemonServer(b.grpc, b.Daemon)
	go func() { _ = b.grpc.Serve(b.lis) }()
	return b
}

// Target is the address clients should dial; the passthrough scheme skips
// name resolution so the dialer alone decides where bytes go.
func (b *BufServer) Target() string { return "passthrough:///bufnet" }

// DialOptions routes a client's channel at the in-memory listener.
func (b *BufServer) DialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return b.lis.DialContext(ctx)
		}),
	}
}

// Stop tears the server down, closing every live session.
func (b *BufServer) Stop() { b.grpc.Stop() }

// TCPServer serves a scriptable daemon on a real loopback port, for tests
// covering address-based dialing.
type TCPServer struct {
	Daemon *Server
	Addr   string

	grpc *grpc.Server
}

// StartTCP serves a fresh scriptable daemon on an ephemeral loopback port.
func StartTCP() (*TCPServer, error) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	t := &TCPServer{
		Daemon: NewServer(),
		Addr:   lis.Addr().String(),
		grpc:   grpc.NewServer(),
	}
	rpc.RegisterDaemonServer(t.grpc, t.Daemon)
	go func() { _ = t.grpc.Serve(lis) }()
	return t, nil
}

// Stop tears the server down, closing every live session.
func (t *TCPServer) Stop() { t.grpc.Stop() }
