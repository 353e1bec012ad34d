package grpcserver

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRateLimiterInterceptor(t *testing.T) {
	interceptor := NewRateLimiterInterceptor(zerolog.Nop(),
		map[string]int{"WorkerInfo": 1},
		map[string]int{"workerinfo": 2},
	)

	calls := 0
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		calls++
		return "ok", nil
	}
	call := func(method string) error {
		_, err := interceptor.UnaryServerInterceptor(context.Background(), nil,
			&grpc.UnaryServerInfo{FullMethod: "/primary.WorkerToPrimary/" + method}, handler)
		return err
	}

	// the burst is matched regardless of case and allows two immediate calls
	require.NoError(t, call("WorkerInfo"))
	require.NoError(t, call("WorkerInfo"))
	err := call("WorkerInfo")
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	assert.Equal(t, 2, calls)

	// methods without a configured limit use the default limiter
	require.NoError(t, call("ReportOthersBatch"))
	assert.Equal(t, 3, calls)
}

func TestLoggingInterceptor(t *testing.T) {
	interceptor := LoggingInterceptor(zerolog.Nop())
	info := &grpc.UnaryServerInfo{FullMethod: "/primary.WorkerToPrimary/WorkerInfo"}

	resp, err := interceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	_, err = interceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return nil, status.Error(codes.Internal, "boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
}
