package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// Full method names for the daemon control service. The client invokes these
// paths directly; the service descriptor routes them on the server side.
const (
	ServiceName = "daemon.DaemonService"

	MethodGetStatus  = "/daemon.DaemonService/GetStatus"
	MethodGetMetrics = "/daemon.DaemonService/GetMetrics"
	MethodControl    = "/daemon.DaemonService/Control"
)

// Metadata keys identifying a console session on every call.
const (
	SessionMetadataKey = "x-daemonctl-session"
	VersionMetadataKey = "x-daemonctl-version"
)

// DaemonServer is the server-side contract. Production daemons live outside
// this repository; internal/daemontest implements it for tests.
type DaemonServer interface {
	GetStatus(ctx context.Context, req *StatusRequest) (*StatusResponse, error)
	GetMetrics(ctx context.Context, req *MetricsRequest) (*MetricsResponse, error)
	Control(ctx context.Context, req *ControlRequest) (*ControlResponse, error)
}

// RegisterDaemonServer wires an implementation into a grpc.Server under
// ServiceDesc.
func RegisterDaemonServer(s grpc.ServiceRegistrar, srv DaemonServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc is maintained by hand; the wire types are plain JSON messages,
// so there is no generated protobuf code to anchor it.
//
//nolint:gochecknoglobals // grpc service descriptors are package-level by convention
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DaemonServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStatus", Handler: getStatusHandler},
		{MethodName: "GetMetrics", Handler: getMetricsHandler},
		{MethodName: "Control", Handler: controlHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func getStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DaemonServer).GetStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetStatus}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DaemonServer).GetStatus(ctx, req.(*StatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getMetricsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(MetricsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DaemonServer).GetMetrics(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetMetrics}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DaemonServer).GetMetrics(ctx, req.(*MetricsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func controlHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ControlRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DaemonServer).Control(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodControl}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DaemonServer).Control(ctx, req.(*ControlRequest))
	}
	return interceptor(ctx, in, info, handler)
}
