// Package rpc exposes a receiver to workers over gRPC and provides the client
// workers use to call it.
package rpc

import (
	"github.com/rs/zerolog"

	"github.com/onflow/flow-primary/engine/primary/receiver"
	"github.com/onflow/flow-primary/module/grpcserver"
)

// Config defines the configurable options for the worker facing gRPC server.
type Config struct {
	ListenAddr        string
	MaxMsgSize        uint           // in bytes
	RPCMetricsEnabled bool           // enable grpc metrics reporting
	APIRateLimits     map[string]int // rate limit per method, in calls per second
	APIBurstLimits    map[string]int // burst limit per method
}

// Engine implements the worker facing gRPC service on top of a receiver.
// The receiver is usually a receiver.Switch, so the service can be bound
// before the pipeline is wired.
type Engine struct {
	*grpcserver.GrpcServer
	log zerolog.Logger
}

// New registers the service on a new grpc server and returns the engine.
// The engine is a component; the server listens once it is started.
func New(log zerolog.Logger, config Config, r receiver.Receiver, opts ...grpcserver.Option) *Engine {
	log = log.With().Str("engine", "worker_rpc").Logger()

	opts = append([]grpcserver.Option{grpcserver.WithCodec(Codec{})}, opts...)
	builder := grpcserver.NewGrpcServerBuilder(
		log,
		config.ListenAddr,
		config.MaxMsgSize,
		config.RPCMetricsEnabled,
		config.APIRateLimits,
		config.APIBurstLimits,
		opts...,
	)
	RegisterWorkerToPrimaryServer(builder.Server(), &handler{receiver: r})

	return &Engine{
		GrpcServer: builder.Build(),
		log:        log,
	}
}
