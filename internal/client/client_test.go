//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/opsdeck/daemonctl/internal/daemontest"
	"github.com/opsdeck/daemonctl/internal/rpc"
)

// newBufClient returns a connected client wired to a fresh in-process daemon.
func newBufClient(t *testing.T, opts ...Option) (*Client, *daemontest.BufServer) {
	t.Helper()
	srv := daemontest.StartBuf()
	t.Cleanup(srv.Stop)

	opts = append([]Option{WithDialOptions(srv.DialOptions()...)}, opts...)
	c := New(srv.Target(), opts...)
	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(c.Disconnect)
	return c, srv
}

func TestClient_NotConnectedFailsFast(t *testing.T) {
	t.Parallel()

	c := New("127.0.0.1:50051")
	assert.False(t, c.IsConnected())

	_, err := c.GetStatus(context.Background())
	require.ErrorIs(t, err, ErrNotConnected)

	_, err = c.GetMetrics(context.Background())
	require.ErrorIs(t, err, ErrNotConnected)

	_, err = c.Control(context.Background(), rpc.CommandStart)
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestClient_ConnectAndGetStatus(t *testing.T) {
	t.Parallel()

	c, _ := newBufClient(t)
	assert.True(t, c.IsConnected())

	resp, err := c.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rpc.StateRunning, resp.DaemonState())
	assert.Equal(t, "daemontest", resp.Version)
}

func TestClient_GetMetrics(t *testing.T) {
	t.Parallel()

	c, srv := newBufClient(t)
	srv.Daemon.SetMetrics(&rpc.MetricsResponse{
		CPUUsagePercent:  57.3,
		MemoryBytes:      1_500_000_000,
		MemoryLimitBytes: 8_589_934_592,
	})

	resp, err := c.GetMetrics(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 57.3, resp.CPUUsagePercent, 0.0001)
	assert.Equal(t, uint64(1_500_000_000), resp.MemoryBytes)
}

func TestClient_ControlRoundTrip(t *testing.T) {
	t.Parallel()

	c, srv := newBufClient(t)

	resp, err := c.Control(context.Background(), rpc.CommandRestart)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Restart acknowledged", resp.Message)
	assert.Equal(t, []rpc.ControlCommand{rpc.CommandRestart}, srv.Daemon.ControlCalls)
}

func TestClient_ControlReportedFailure(t *testing.T) {
	t.Parallel()

	c, srv := newBufClient(t)
	srv.Daemon.SetControlResult(&rpc.ControlResponse{Success: false, Message: "daemon is busy"})

	resp, err := c.Control(context.Background(), rpc.CommandStop)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "daemon is busy", resp.Message)
}

func TestClient_SessionMetadataAttached(t *testing.T) {
	t.Parallel()

	c, srv := newBufClient(t)

	_, err := c.GetStatus(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, srv.Daemon.SessionIDs)
	assert.Equal(t, c.defaultIdentity.SessionUUID, srv.Daemon.SessionIDs[0])
}

func TestClient_ContextIdentityOverride(t *testing.T) {
	t.Parallel()

	c, srv := newBufClient(t)

	ctx := WithIdentity(context.Background(), Identity{SessionUUID: "session-override", Version: "v9"})
	_, err := c.GetStatus(ctx)
	require.NoError(t, err)

	require.NotEmpty(t, srv.Daemon.SessionIDs)
	assert.Equal(t, "session-override", srv.Daemon.SessionIDs[0])
}

func TestClient_RPCErrorCarriesMethod(t *testing.T) {
	t.Parallel()

	c, srv := newBufClient(t)
	srv.Daemon.FailStatus(status.Error(codes.Internal, "scripted failure"))

	_, err := c.GetStatus(context.Background())
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, rpc.MethodGetStatus, rpcErr.Method)
	assert.Contains(t, err.Error(), "GetStatus")
	assert.Contains(t, err.Error(), "scripted failure")
}

func TestClient_CallTimeout(t *testing.T) {
	t.Parallel()

	c, srv := newBufClient(t, WithCallTimeout(100*time.Millisecond))
	srv.Daemon.SetStatusDelay(2 * time.Second)

	_, err := c.GetStatus(context.Background())
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, codes.DeadlineExceeded, status.Code(rpcErr.Err))
}

func TestClient_ConnectRefused(t *testing.T) {
	t.Parallel()

	// Port 1 is essentially never listening on loopback.
	c := New("127.0.0.1:1", WithConnectTimeout(2*time.Second))

	err := c.Connect(context.Background())
	require.Error(t, err)

	var connErr *ConnectError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "127.0.0.1:1", connErr.Address)
	assert.False(t, c.IsConnected())
}

func TestClient_ConnectOverTCP(t *testing.T) {
	t.Parallel()

	srv, err := daemontest.StartTCP()
	require.NoError(t, err)
	t.Cleanup(srv.Stop)

	c := New(srv.Addr)
	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(c.Disconnect)

	resp, err := c.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rpc.StateRunning, resp.DaemonState())
}

func TestClient_DisconnectIdempotent(t *testing.T) {
	t.Parallel()

	c, _ := newBufClient(t)

	c.Disconnect()
	assert.False(t, c.IsConnected())

	// Second disconnect is a no-op, not a panic.
	c.Disconnect()
	assert.False(t, c.IsConnected())

	_, err := c.GetStatus(context.Background())
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestErrors_Unwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	assert.ErrorIs(t, &ConnectError{Address: "a", Err: inner}, inner)
	assert.ErrorIs(t, &RPCError{Method: rpc.MethodControl, Err: inner}, inner)
}
