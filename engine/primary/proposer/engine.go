// Package proposer consumes the digests our workers report and packs them into
// headers. A digest is acknowledged to the reporting worker once it is part of
// a sealed header.
package proposer

import (
	"fmt"
	"time"

	"github.com/ef-ds/deque"
	"github.com/rs/zerolog"

	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/model/messages"
	"github.com/onflow/flow-primary/module"
	"github.com/onflow/flow-primary/module/component"
	"github.com/onflow/flow-primary/module/irrecoverable"
	"github.com/onflow/flow-primary/module/metered"
	"github.com/onflow/flow-primary/storage"
)

// HeaderConsumer is notified of every sealed header, from the proposer's goroutine.
type HeaderConsumer func(*flow.Header)

// Engine is the single consumer of the digest handoff channel.
type Engine struct {
	component.Component

	log      zerolog.Logger
	metrics  module.ProposerMetrics
	config   Config
	digests  *metered.Channel[*messages.OurDigest]
	payloads storage.BatchPayloads
	consumer HeaderConsumer

	// only accessed by the processing loop
	pending deque.Deque
	round   uint64
}

func New(
	log zerolog.Logger,
	collector module.ProposerMetrics,
	digests *metered.Channel[*messages.OurDigest],
	payloads storage.BatchPayloads,
	consumer HeaderConsumer,
	opts ...Option,
) (*Engine, error) {
	config := DefaultConfig()
	for _, apply := range opts {
		apply(&config)
	}
	if config.MaxHeaderDigests == 0 {
		return nil, fmt.Errorf("max header digests must be positive")
	}
	if config.MaxHeaderDelay <= 0 {
		return nil, fmt.Errorf("max header delay must be positive, got %v", config.MaxHeaderDelay)
	}
	if consumer == nil {
		consumer = func(*flow.Header) {}
	}

	e := &Engine{
		log:      log.With().Str("engine", "proposer").Logger(),
		metrics:  collector,
		config:   config,
		digests:  digests,
		payloads: payloads,
		consumer: consumer,
	}

	e.Component = component.NewComponentManagerBuilder().
		AddWorker(e.processingLoop).
		Build()

	return e, nil
}

func (e *Engine) processingLoop(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	defer e.shutdown()
	ready()

	timer := time.NewTimer(e.config.MaxHeaderDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case digest := <-e.digests.Out():
			e.onDigest(digest)
			if uint(e.pending.Len()) >= e.config.MaxHeaderDigests {
				e.seal()
				resetTimer(timer, e.config.MaxHeaderDelay)
			}

		case <-timer.C:
			if e.pending.Len() > 0 {
				e.seal()
			}
			timer.Reset(e.config.MaxHeaderDelay)
		}
	}
}

// onDigest persists the own payload and queues the digest for the next header.
// If the payload cannot be persisted, the worker is told by dropping the ack.
func (e *Engine) onDigest(digest *messages.OurDigest) {
	log := e.log.With().
		Hex("digest", digest.Digest[:]).
		Uint32("worker_id", uint32(digest.WorkerID)).
		Logger()

	err := e.payloads.Store(digest.Digest, digest.WorkerID)
	if err != nil {
		log.Error().Err(err).Msg("could not persist own payload, dropping acknowledgment")
		_ = digest.Ack.Drop()
		return
	}

	e.pending.PushBack(digest)
	e.metrics.PendingDigests(e.pending.Len())
	log.Debug().Int("pending", e.pending.Len()).Msg("own digest queued")
}

// seal takes up to MaxHeaderDigests pending digests into a new header, hands
// the header to the consumer and acknowledges the included digests.
func (e *Engine) seal() {
	e.round++
	header := &flow.Header{
		Round:     e.round,
		Timestamp: time.Now().UTC(),
	}

	included := make([]*messages.OurDigest, 0, e.config.MaxHeaderDigests)
	for uint(len(included)) < e.config.MaxHeaderDigests {
		item, ok := e.pending.PopFront()
		if !ok {
			break
		}
		digest := item.(*messages.OurDigest)
		included = append(included, digest)
		header.Payload = append(header.Payload, flow.BatchRef{Digest: digest.Digest, WorkerID: digest.WorkerID})
	}

	e.consumer(header)

	for _, digest := range included {
		err := digest.Ack.Send()
		if err != nil {
			e.log.Warn().Err(err).Hex("digest", digest.Digest[:]).Msg("could not acknowledge digest")
		}
	}

	id := header.ID()
	e.metrics.HeaderSealed(header.Round, len(header.Payload))
	e.metrics.PendingDigests(e.pending.Len())
	e.log.Info().
		Uint64("round", header.Round).
		Hex("header_id", id[:]).
		Int("payload_size", len(header.Payload)).
		Msg("header sealed")
}

// shutdown closes the handoff channel and drops the acknowledgment of every
// digest that did not make it into a header, so no worker waits forever.
func (e *Engine) shutdown() {
	dropped := 0
	for {
		item, ok := e.pending.PopFront()
		if !ok {
			break
		}
		_ = item.(*messages.OurDigest).Ack.Drop()
		dropped++
	}
	for _, digest := range e.digests.Drain() {
		_ = digest.Ack.Drop()
		dropped++
	}
	e.metrics.PendingDigests(0)
	e.log.Info().Int("dropped", dropped).Msg("proposer stopped")
}

func resetTimer(timer *time.Timer, d time.Duration) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(d)
}
