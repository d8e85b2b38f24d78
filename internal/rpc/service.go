package rpc

import (
	"context"
	"log/slog"

	"github.com/coldtrail/iot-broker/internal/business"
	"google.golang.org/grpc"
)

// ServiceName is the gRPC service name clients dial, mirroring the
// package-qualified name protoc would generate from api/proto/iot.proto.
const ServiceName = "iot.TelemetryService"

type handler struct {
	read *business.ReadService
	log  *slog.Logger
}

// Register attaches the telemetry read service to srv.
func Register(srv *grpc.Server, read *business.ReadService, log *slog.Logger) {
	srv.RegisterService(&serviceDesc, &handler{read: read, log: log})
}

func (h *handler) GetLatestReading(ctx context.Context, req *GetLatestReadingRequest) (*GetLatestReadingResponse, error) {
	reading, found, err := h.read.Latest(ctx, req.DeviceId)
	if err != nil {
		h.log.Error("get latest reading failed", "deviceId", req.DeviceId, "error", err)
		return nil, err
	}

	return &GetLatestReadingResponse{Temp: reading.Temp, Time: reading.Time, Found: found}, nil
}

func getLatestReadingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(GetLatestReadingRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*handler).GetLatestReading(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ServiceName + "/GetLatestReading"}
	handlerFunc := func(ctx context.Context, req any) (any, error) {
		return srv.(*handler).GetLatestReading(ctx, req.(*GetLatestReadingRequest))
	}
	return interceptor(ctx, req, info, handlerFunc)
}

// serviceDesc is hand-built in place of protoc-generated output — the
// method table a real .proto compile would produce for the one RPC
// api/proto/iot.proto documents.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetLatestReading",
			Handler:    getLatestReadingHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "iot.proto",
}
