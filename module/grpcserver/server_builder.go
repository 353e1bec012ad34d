package grpcserver

import (
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/encoding"
)

type Option func(*GrpcServerBuilder)

// WithTransportCredentials sets the transport credentials parameters for a grpc server builder.
func WithTransportCredentials(transportCredentials credentials.TransportCredentials) Option {
	return func(c *GrpcServerBuilder) {
		c.transportCredentials = transportCredentials
	}
}

// WithCodec forces the server to use the given codec for every method.
func WithCodec(codec encoding.Codec) Option {
	return func(c *GrpcServerBuilder) {
		c.codec = codec
	}
}

// GrpcServerBuilder separates creating the grpc server from starting it,
// since services need to be registered before the server starts.
type GrpcServerBuilder struct {
	log        zerolog.Logger
	listenAddr string
	server     *grpc.Server

	transportCredentials credentials.TransportCredentials
	codec                encoding.Codec
}

// NewGrpcServerBuilder creates the grpc server with the given message size
// limit and the interceptor chain: prometheus metrics (optional), rate limits
// (optional), request logging (innermost).
func NewGrpcServerBuilder(log zerolog.Logger,
	listenAddr string,
	maxMsgSize uint,
	rpcMetricsEnabled bool,
	apiRateLimits map[string]int, // the api rate limit (max calls per second) for each method e.g. ReportOwnBatch->1000
	apiBurstLimits map[string]int, // the api burst limit (max calls at the same time) for each method
	opts ...Option,
) *GrpcServerBuilder {
	log = log.With().Str("component", "grpc_server").Logger()

	builder := &GrpcServerBuilder{
		log:        log,
		listenAddr: listenAddr,
	}
	for _, applyOption := range opts {
		applyOption(builder)
	}

	grpcOpts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(int(maxMsgSize)),
		grpc.MaxSendMsgSize(int(maxMsgSize)),
	}

	var interceptors []grpc.UnaryServerInterceptor // ordered list of interceptors
	if rpcMetricsEnabled {
		interceptors = append(interceptors, grpc_prometheus.UnaryServerInterceptor)
	}
	if len(apiRateLimits) > 0 {
		rateLimitInterceptor := NewRateLimiterInterceptor(log, apiRateLimits, apiBurstLimits).UnaryServerInterceptor
		interceptors = append(interceptors, rateLimitInterceptor)
	}
	interceptors = append(interceptors, LoggingInterceptor(log))
	grpcOpts = append(grpcOpts, grpc.ChainUnaryInterceptor(interceptors...))

	if builder.transportCredentials != nil {
		grpcOpts = append(grpcOpts, grpc.Creds(builder.transportCredentials))
	}
	if builder.codec != nil {
		grpcOpts = append(grpcOpts, grpc.ForceServerCodec(builder.codec))
	}

	builder.server = grpc.NewServer(grpcOpts...)
	if rpcMetricsEnabled {
		grpc_prometheus.EnableHandlingTimeHistogram()
	}

	return builder
}

// Server returns the underlying grpc server, for registering services.
func (b *GrpcServerBuilder) Server() *grpc.Server {
	return b.server
}

// Build returns the server component. Services must be registered before.
func (b *GrpcServerBuilder) Build() *GrpcServer {
	// registering after the services were added initializes the per-method metrics
	grpc_prometheus.Register(b.server)
	return NewGrpcServer(b.log, b.listenAddr, b.server)
}
