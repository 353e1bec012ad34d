package cmd

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/onflow/flow-primary/config"
	"github.com/onflow/flow-primary/engine/primary/proposer"
	"github.com/onflow/flow-primary/engine/primary/receiver"
	"github.com/onflow/flow-primary/engine/primary/rpc"
	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/model/messages"
	"github.com/onflow/flow-primary/module"
	"github.com/onflow/flow-primary/module/component"
	"github.com/onflow/flow-primary/module/irrecoverable"
	"github.com/onflow/flow-primary/module/metered"
	"github.com/onflow/flow-primary/module/metrics"
	"github.com/onflow/flow-primary/module/util"
	"github.com/onflow/flow-primary/storage"
	bstorage "github.com/onflow/flow-primary/storage/badger"
	pstorage "github.com/onflow/flow-primary/storage/pebble"
	"github.com/onflow/flow-primary/storage/store"
)

const (
	EngineBadger = "badger"
	EnginePebble = "pebble"
)

// PrimaryNode wires the worker facing services of a primary. The rpc server is
// bound to a receiver.Switch which is activated once the proposer is ready, so
// workers connecting early are told the primary is not ready yet.
type PrimaryNode struct {
	*component.ComponentManager

	log      zerolog.Logger
	Switch   *receiver.Switch
	RPC      *rpc.Engine
	Proposer *proposer.Engine
	Payloads storage.BatchPayloads

	controller *receiver.Controller
	closeDB    func() error
}

// NewPrimaryNode opens the payload store and creates all components. Storage is
// closed by Close, after the node is done.
func NewPrimaryNode(
	log zerolog.Logger,
	conf *config.Config,
	workers *flow.WorkerTopology,
	registerer prometheus.Registerer,
	gatherer prometheus.Gatherer,
	consumer proposer.HeaderConsumer,
) (*PrimaryNode, error) {
	ingestionMetrics := metrics.NewIngestionCollector(registerer)
	cacheMetrics := metrics.NewCacheCollector(registerer)

	payloads, closeDB, err := openPayloads(log, conf.Storage, cacheMetrics)
	if err != nil {
		return nil, err
	}

	digests, err := metered.New[*messages.OurDigest](
		conf.Handoff.Capacity,
		metered.WithLengthObserver(ingestionMetrics.HandoffQueueLength),
	)
	if err != nil {
		return nil, multierror.Append(fmt.Errorf("could not create handoff channel: %w", err), closeDB())
	}

	prop, err := proposer.New(log, ingestionMetrics, digests, payloads, consumer,
		proposer.WithMaxHeaderDigests(conf.Proposer.MaxHeaderDigests),
		proposer.WithMaxHeaderDelay(conf.Proposer.MaxHeaderDelay),
	)
	if err != nil {
		return nil, multierror.Append(fmt.Errorf("could not create proposer: %w", err), closeDB())
	}

	sw := receiver.NewSwitch()
	rpcEngine := rpc.New(log, rpc.Config{
		ListenAddr:        conf.RPC.ListenAddr,
		MaxMsgSize:        uint(conf.RPC.MaxMsgSize),
		RPCMetricsEnabled: conf.RPC.MetricsEnabled,
		APIRateLimits:     conf.RPC.RateLimits,
		APIBurstLimits:    conf.RPC.BurstLimits,
	}, sw)

	metricsServer := metrics.NewServer(log, gatherer, conf.Metrics.Port, conf.Metrics.Profiler)

	node := &PrimaryNode{
		log:        log.With().Str("component", "primary_node").Logger(),
		Switch:     sw,
		RPC:        rpcEngine,
		Proposer:   prop,
		Payloads:   payloads,
		controller: receiver.NewController(log, ingestionMetrics, digests, payloads, workers),
		closeDB:    closeDB,
	}

	node.ComponentManager = component.NewComponentManagerBuilder().
		AddWorker(runComponent(metricsServer)).
		AddWorker(runComponent(prop)).
		AddWorker(runComponent(rpcEngine)).
		AddWorker(node.activateWorker).
		Build()

	return node, nil
}

// activateWorker installs the controller on the switch once the proposer
// consumes the handoff channel.
func (n *PrimaryNode) activateWorker(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	if err := util.WaitReady(ctx, n.Proposer.Ready()); err != nil {
		return
	}
	if err := n.Switch.Activate(n.controller); err != nil {
		ctx.Throw(irrecoverable.NewExceptionf("could not activate worker receiver: %w", err))
		return
	}
	n.log.Info().Msg("worker receiver activated")
	ready()
}

// Close closes the payload store. It must only be called once the node is done.
func (n *PrimaryNode) Close() error {
	return n.closeDB()
}

// runComponent starts a child component as a worker of the node: the worker
// is ready when the child is ready and returns when the child is done.
func runComponent(c component.Component) component.ComponentWorker {
	return func(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
		c.Start(ctx)
		if err := util.WaitReady(ctx, c.Ready()); err == nil {
			ready()
		}
		<-c.Done()
	}
}

func openPayloads(log zerolog.Logger, conf config.StorageConfig, collector module.CacheMetrics) (storage.BatchPayloads, func() error, error) {
	var (
		backend storage.BatchPayloads
		closeDB func() error
	)

	switch conf.Engine {
	case EngineBadger:
		db, err := bstorage.Open(log, conf.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open badger payload store: %w", err)
		}
		backend, closeDB = bstorage.NewPayloads(db), db.Close
	case EnginePebble:
		db, err := pstorage.Open(conf.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open pebble payload store: %w", err)
		}
		backend, closeDB = pstorage.NewPayloads(db), db.Close
	default:
		return nil, nil, fmt.Errorf("unknown storage engine %q", conf.Engine)
	}

	cached, err := store.NewCachedPayloads(collector, backend, int(conf.CacheSize))
	if err != nil {
		return nil, nil, multierror.Append(fmt.Errorf("could not create payload cache: %w", err), closeDB())
	}

	log.Info().Str("engine", conf.Engine).Str("dir", conf.Dir).Msg("payload store opened")
	return cached, closeDB, nil
}
