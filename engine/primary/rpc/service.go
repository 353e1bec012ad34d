package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/onflow/flow-primary/model/messages"
)

const (
	ServiceName = "primary.WorkerToPrimary"

	MethodReportOwnBatch    = "ReportOwnBatch"
	MethodReportOthersBatch = "ReportOthersBatch"
	MethodWorkerInfo        = "WorkerInfo"
)

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// WorkerToPrimaryServer is the server API of the service our workers call.
type WorkerToPrimaryServer interface {
	ReportOwnBatch(context.Context, *messages.OwnBatchReport) (*messages.Empty, error)
	ReportOthersBatch(context.Context, *messages.PeerBatchReport) (*messages.Empty, error)
	WorkerInfo(context.Context, *messages.WorkerInfoRequest) (*messages.WorkerInfoResponse, error)
}

// RegisterWorkerToPrimaryServer registers the service on the grpc server.
func RegisterWorkerToPrimaryServer(s grpc.ServiceRegistrar, srv WorkerToPrimaryServer) {
	s.RegisterService(&WorkerToPrimaryServiceDesc, srv)
}

// WorkerToPrimaryServiceDesc describes the service. Messages are encoded with
// Codec, so the descriptor is declared here instead of generated from protobuf.
var WorkerToPrimaryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WorkerToPrimaryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: MethodReportOwnBatch,
			Handler:    reportOwnBatchHandler,
		},
		{
			MethodName: MethodReportOthersBatch,
			Handler:    reportOthersBatchHandler,
		},
		{
			MethodName: MethodWorkerInfo,
			Handler:    workerInfoHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "worker_to_primary",
}

func reportOwnBatchHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(messages.OwnBatchReport)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkerToPrimaryServer).ReportOwnBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: fullMethod(MethodReportOwnBatch),
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(WorkerToPrimaryServer).ReportOwnBatch(ctx, req.(*messages.OwnBatchReport))
	}
	return interceptor(ctx, in, info, handler)
}

func reportOthersBatchHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(messages.PeerBatchReport)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkerToPrimaryServer).ReportOthersBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: fullMethod(MethodReportOthersBatch),
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(WorkerToPrimaryServer).ReportOthersBatch(ctx, req.(*messages.PeerBatchReport))
	}
	return interceptor(ctx, in, info, handler)
}

func workerInfoHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(messages.WorkerInfoRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorkerToPrimaryServer).WorkerInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: fullMethod(MethodWorkerInfo),
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(WorkerToPrimaryServer).WorkerInfo(ctx, req.(*messages.WorkerInfoRequest))
	}
	return interceptor(ctx, in, info, handler)
}
