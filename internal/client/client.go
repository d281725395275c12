// Package client wraps the gRPC session to a daemon behind the small
// surface the console dispatches against: connect, disconnect, and the
// three unary calls, each with a bounded timeout.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/opsdeck/daemonctl/internal/rpc"
)

//nolint:gochecknoglobals // default values are overwritten by WithConnectTimeout and WithCallTimeout.
var (
	defaultConnectTimeout = 5 * time.Second
	defaultCallTimeout    = 10 * time.Second
)

// DaemonClient is the transport interface the console dispatches against.
// Calls on a disconnected client fail fast with ErrNotConnected; liveness of
// an established session is discovered lazily on the next call.
type DaemonClient interface {
	Connect(ctx context.Context) error
	Disconnect()
	IsConnected() bool
	GetStatus(ctx context.Context) (*rpc.StatusResponse, error)
	GetMetrics(ctx context.Context) (*rpc.MetricsResponse, error)
	Control(ctx context.Context, cmd rpc.ControlCommand) (*rpc.ControlResponse, error)
}

// Client is a concrete implementation of DaemonClient over a single
// grpc.ClientConn. It is not safe for concurrent use; the event loop is its
// sole caller and never issues overlapping calls.
type Client struct {
	address         string
	connectTimeout  time.Duration
	callTimeout     time.Duration
	dialOpts        []grpc.DialOption
	defaultIdentity Identity

	conn *grpc.ClientConn
}

// Option mutates Client configuration.
type Option func(*Client)

// WithConnectTimeout bounds session establishment.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}

// WithCallTimeout bounds each unary call.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.callTimeout = d
		}
	}
}

// WithDialOptions appends extra dial options. Tests use this to route the
// channel over an in-process listener.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dialOpts = append(c.dialOpts, opts...)
	}
}

// WithDefaultIdentity overrides the generated per-process identity.
func WithDefaultIdentity(id Identity) Option {
	return func(c *Client) {
		c.defaultIdentity = id
	}
}

// New constructs a disconnected Client for the given address. Address
// problems surface on Connect, not here; the constructor never fails.
func New(address string, opts ...Option) *Client {
	c := &Client{
		address:         address,
		connectTimeout:  defaultConnectTimeout,
		callTimeout:     defaultCallTimeout,
		defaultIdentity: NewIdentity(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect establishes the session: creates the channel, then waits for it to
// become ready within the connect timeout. The caller guards against calling
// this while already connected.
func (c *Client) Connect(ctx context.Context) error {
	logrus.Debug("Opening channel to: ", c.address)

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpc.CodecName)),
		grpc.WithUnaryInterceptor(c.identityInterceptor()),
	}, c.dialOpts...)

	conn, err := grpc.NewClient(c.address, dialOpts...)
	if err != nil {
		return &ConnectError{Address: c.address, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	// grpc.NewClient succeeds without touching the network, so drive the
	// channel to Ready here; the daemon being down must fail Connect, not
	// the first call.
	conn.Connect()
	for {
		s := conn.GetState()
		if s == connectivity.Ready {
			break
		}
		if s == connectivity.TransientFailure || s == connectivity.Shutdown {
			_ = conn.Close()
			return &ConnectError{Address: c.address, Err: fmt.Errorf("channel entered state %s", s)}
		}
		if !conn.WaitForStateChange(ctx, s) {
			_ = conn.Close()
			return &ConnectError{Address: c.address, Err: ctx.Err()}
		}
	}

	c.conn = conn
	return nil
}

// Disconnect drops the session. Always succeeds; safe to call when already
// disconnected.
func (c *Client) Disconnect() {
	if c.conn == nil {
		return
	}
	logrus.Debug("Closing channel to: ", c.address)
	if err := c.conn.Close(); err != nil {
		logrus.Debugf("closing channel: %v", err)
	}
	c.conn = nil
}

// IsConnected reports whether a session exists. It says nothing about
// whether the peer is reachable right now.
func (c *Client) IsConnected() bool {
	return c.conn != nil
}

// GetStatus fetches the daemon's lifecycle state snapshot.
func (c *Client) GetStatus(ctx context.Context) (*rpc.StatusResponse, error) {
	return invoke[rpc.StatusRequest, rpc.StatusResponse](ctx, c, rpc.MethodGetStatus, &rpc.StatusRequest{})
}

// GetMetrics fetches the daemon's resource metrics snapshot.
func (c *Client) GetMetrics(ctx context.Context) (*rpc.MetricsResponse, error) {
	return invoke[rpc.MetricsRequest, rpc.MetricsResponse](ctx, c, rpc.MethodGetMetrics, &rpc.MetricsRequest{})
}

// Control sends one lifecycle command and returns the daemon's verdict.
func (c *Client) Control(ctx context.Context, cmd rpc.ControlCommand) (*rpc.ControlResponse, error) {
	req := &rpc.ControlRequest{Command: int32(cmd)}
	return invoke[rpc.ControlRequest, rpc.ControlResponse](ctx, c, rpc.MethodControl, req)
}

// invoke performs one unary exchange with the per-call timeout applied.
func invoke[Req, Resp any](ctx context.Context, c *Client, method string, req *Req) (*Resp, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	resp := new(Resp)
	if err := c.conn.Invoke(ctx, method, req, resp); err != nil {
		return nil, &RPCError{Method: method, Err: err}
	}
	return resp, nil
}

// identityInterceptor attaches session metadata to every outgoing call. A
// context identity set via WithIdentity overrides the client default.
func (c *Client) identityInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		id, ok := IdentityFromContext(ctx)
		if !ok {
			id = c.defaultIdentity
		}
		if id.SessionUUID != "" {
			ctx = metadata.AppendToOutgoingContext(ctx,
				rpc.SessionMetadataKey, id.SessionUUID,
				rpc.VersionMetadataKey, id.Version,
			)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}
