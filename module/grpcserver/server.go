package grpcserver

import (
	"net"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/onflow/flow-primary/module/component"
	"github.com/onflow/flow-primary/module/irrecoverable"
)

// GrpcServer runs a gRPC server as a component: it listens once started and
// stops gracefully when the component context is cancelled.
type GrpcServer struct {
	component.Component
	log        zerolog.Logger
	grpcServer *grpc.Server
	listenAddr string

	addrLock    sync.RWMutex
	grpcAddress net.Addr
}

// NewGrpcServer returns a new grpc server.
func NewGrpcServer(log zerolog.Logger, listenAddr string, grpcServer *grpc.Server) *GrpcServer {
	server := &GrpcServer{
		log:        log,
		grpcServer: grpcServer,
		listenAddr: listenAddr,
	}
	server.Component = component.NewComponentManagerBuilder().
		AddWorker(server.serveGRPCWorker).
		AddWorker(server.shutdownWorker).
		Build()
	return server
}

// serveGRPCWorker is a worker routine which starts the gRPC server.
// The ready callback is called after the server address is bound and set.
func (g *GrpcServer) serveGRPCWorker(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	g.log.Info().Str("grpc_address", g.listenAddr).Msg("starting grpc server on address")

	l, err := net.Listen("tcp", g.listenAddr)
	if err != nil {
		g.log.Err(err).Msg("failed to start the grpc server")
		ctx.Throw(irrecoverable.NewExceptionf("could not listen on %s: %w", g.listenAddr, err))
		return
	}

	// the actual address may differ from the configured one if no port was given
	g.addrLock.Lock()
	g.grpcAddress = l.Addr()
	g.addrLock.Unlock()
	g.log.Debug().Str("grpc_address", l.Addr().String()).Msg("listening on port")
	ready()

	err = g.grpcServer.Serve(l) // blocking call
	if err != nil {
		g.log.Err(err).Msg("fatal error in grpc server")
		ctx.Throw(irrecoverable.NewExceptionf("grpc server failed: %w", err))
	}
}

// GRPCAddress returns the listen address of the GRPC server.
// Guaranteed to be non-nil after Ready is closed.
func (g *GrpcServer) GRPCAddress() net.Addr {
	g.addrLock.RLock()
	defer g.addrLock.RUnlock()
	return g.grpcAddress
}

// shutdownWorker is a worker routine which shuts down server when the context is cancelled.
func (g *GrpcServer) shutdownWorker(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	ready()
	<-ctx.Done()
	g.grpcServer.GracefulStop()
}
