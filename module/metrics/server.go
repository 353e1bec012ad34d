package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/onflow/flow-primary/module/component"
	"github.com/onflow/flow-primary/module/irrecoverable"
)

// Server is the http server that will be serving the /metrics request for prometheus
type Server struct {
	component.Component

	server *http.Server
	log    zerolog.Logger
}

// NewServer creates a new server that will start on the specified port,
// and responds to only the `/metrics` endpoint, plus the pprof endpoints if enabled.
func NewServer(log zerolog.Logger, gatherer prometheus.Gatherer, port uint, enableProfilerEndpoint bool) *Server {
	addr := ":" + strconv.Itoa(int(port))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	if enableProfilerEndpoint {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	m := &Server{
		server: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		log:    log.With().Str("component", "metrics_server").Logger(),
	}

	m.Component = component.NewComponentManagerBuilder().
		AddWorker(m.serve).
		Build()

	return m
}

func (m *Server) serve(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	l, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		ctx.Throw(irrecoverable.NewExceptionf("could not listen on %s: %w", m.server.Addr, err))
		return
	}
	m.log.Info().Str("address", l.Addr().String()).Str("endpoint", "/metrics").Msg("metrics server started")
	ready()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.server.Shutdown(shutdownCtx)
	}()

	err = m.server.Serve(l)
	// http.ErrServerClosed is returned when Close or Shutdown is called
	if errors.Is(err, http.ErrServerClosed) {
		m.log.Debug().Err(err).Msg("metrics server shutdown")
		return
	}
	m.log.Err(err).Msg("fatal error in metrics server")
	ctx.Throw(irrecoverable.NewExceptionf("metrics server failed: %w", err))
}
