package receiver

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/model/messages"
	"github.com/onflow/flow-primary/module"
	"github.com/onflow/flow-primary/module/metered"
	"github.com/onflow/flow-primary/module/metrics"
	"github.com/onflow/flow-primary/module/oneshot"
	"github.com/onflow/flow-primary/storage"
)

// Controller is the receiver wired to the proposer and the payload store.
// It keeps no state of its own; all fields are safe for concurrent use.
type Controller struct {
	log      zerolog.Logger
	metrics  module.IngestionMetrics
	digests  *metered.Channel[*messages.OurDigest]
	payloads storage.BatchPayloads
	workers  *flow.WorkerTopology
}

var _ Receiver = (*Controller)(nil)

// NewController creates the active receiver. Own digests are sent on the given
// channel, peer reports are written to the payload store.
func NewController(
	log zerolog.Logger,
	collector module.IngestionMetrics,
	digests *metered.Channel[*messages.OurDigest],
	payloads storage.BatchPayloads,
	workers *flow.WorkerTopology,
) *Controller {
	return &Controller{
		log:      log.With().Str("engine", "worker_receiver").Logger(),
		metrics:  collector,
		digests:  digests,
		payloads: payloads,
		workers:  workers,
	}
}

// ReportOwnBatch sends the digest to the proposer and waits for its
// acknowledgment. A worker reporting the same digest twice produces two events.
func (c *Controller) ReportOwnBatch(ctx context.Context, report *messages.OwnBatchReport) error {
	start := time.Now()
	log := c.log.With().
		Hex("digest", report.Digest[:]).
		Uint32("worker_id", uint32(report.WorkerID)).
		Logger()

	ack, acknowledged := oneshot.New()
	err := c.digests.Send(ctx, &messages.OurDigest{
		Digest:    report.Digest,
		WorkerID:  report.WorkerID,
		Timestamp: time.UnixMilli(int64(report.CreatedAt)),
		Ack:       ack,
	})
	c.metrics.HandoffQueueLength(c.digests.Len())
	if err != nil {
		c.metrics.ReportFailed(metrics.OperationReportOwnBatch)
		log.Warn().Err(err).Msg("could not hand off own batch digest")
		return NewInternalErrorf("could not hand off digest %x: %w", report.Digest, err)
	}

	err = acknowledged.Wait(ctx)
	if err != nil {
		c.metrics.ReportFailed(metrics.OperationReportOwnBatch)
		log.Warn().Err(err).Msg("own batch digest was not acknowledged")
		return NewInternalErrorf("digest %x was not acknowledged: %w", report.Digest, err)
	}

	c.metrics.OwnBatchAcknowledged(time.Since(start))
	log.Debug().Msg("own batch digest acknowledged")
	return nil
}

// ReportOthersBatch records that the reporting worker holds the batch.
func (c *Controller) ReportOthersBatch(_ context.Context, report *messages.PeerBatchReport) error {
	err := c.payloads.Store(report.Digest, report.WorkerID)
	if err != nil {
		c.metrics.ReportFailed(metrics.OperationReportOthersBatch)
		c.log.Error().Err(err).
			Hex("digest", report.Digest[:]).
			Uint32("worker_id", uint32(report.WorkerID)).
			Msg("could not store peer batch")
		return NewInternalErrorf("could not store peer batch %x: %w", report.Digest, err)
	}
	c.metrics.PeerBatchStored()
	return nil
}

// WorkerInfo returns a copy of the worker topology.
func (c *Controller) WorkerInfo(context.Context) (*messages.WorkerInfoResponse, error) {
	return &messages.WorkerInfoResponse{
		Workers: c.workers.Workers(),
	}, nil
}
