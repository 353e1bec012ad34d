package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/onflow/flow-primary/engine/primary/receiver"
	"github.com/onflow/flow-primary/model/messages"
)

// handler adapts a receiver to the grpc service and translates its errors into
// status codes.
type handler struct {
	receiver receiver.Receiver
}

var _ WorkerToPrimaryServer = (*handler)(nil)

func (h *handler) ReportOwnBatch(ctx context.Context, req *messages.OwnBatchReport) (*messages.Empty, error) {
	err := h.receiver.ReportOwnBatch(ctx, req)
	if err != nil {
		return nil, convertError(ctx, err)
	}
	return &messages.Empty{}, nil
}

func (h *handler) ReportOthersBatch(ctx context.Context, req *messages.PeerBatchReport) (*messages.Empty, error) {
	err := h.receiver.ReportOthersBatch(ctx, req)
	if err != nil {
		return nil, convertError(ctx, err)
	}
	return &messages.Empty{}, nil
}

func (h *handler) WorkerInfo(ctx context.Context, _ *messages.WorkerInfoRequest) (*messages.WorkerInfoResponse, error) {
	resp, err := h.receiver.WorkerInfo(ctx)
	if err != nil {
		return nil, convertError(ctx, err)
	}
	return resp, nil
}

// convertError maps receiver errors to status codes. A call abandoned by the
// client reports the context error rather than the downstream failure.
func convertError(ctx context.Context, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return status.FromContextError(ctx.Err()).Err()
	}
	switch {
	case errors.Is(err, receiver.ErrNotReady):
		return status.Error(codes.Unavailable, err.Error())
	case receiver.IsInternalError(err):
		return status.Error(codes.Internal, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
