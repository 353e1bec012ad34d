// Package receiver implements the endpoint of the primary that the workers of
// this primary report their batches to.
package receiver

import (
	"context"

	"github.com/onflow/flow-primary/model/messages"
)

// Receiver handles the reports sent by our workers.
type Receiver interface {
	// ReportOwnBatch hands the digest of a batch sealed by one of our workers to
	// the proposer and returns once the proposer acknowledged it.
	// Expected errors:
	//   - ErrNotReady if the receiver is not wired yet
	//   - InternalError if the digest could not be handed off or was not acknowledged
	ReportOwnBatch(ctx context.Context, report *messages.OwnBatchReport) error

	// ReportOthersBatch persists that one of our workers holds a batch of
	// another primary's worker. Idempotent.
	// Expected errors:
	//   - ErrNotReady if the receiver is not wired yet
	//   - InternalError if the entry could not be persisted
	ReportOthersBatch(ctx context.Context, report *messages.PeerBatchReport) error

	// WorkerInfo returns a copy of our worker topology.
	// Expected errors:
	//   - ErrNotReady if the receiver is not wired yet
	WorkerInfo(ctx context.Context) (*messages.WorkerInfoResponse, error)
}

// Unavailable is the receiver used until the pipeline is wired up. Every
// operation fails with ErrNotReady and has no side effects.
type Unavailable struct{}

var _ Receiver = Unavailable{}

func (Unavailable) ReportOwnBatch(context.Context, *messages.OwnBatchReport) error {
	return ErrNotReady
}

func (Unavailable) ReportOthersBatch(context.Context, *messages.PeerBatchReport) error {
	return ErrNotReady
}

func (Unavailable) WorkerInfo(context.Context) (*messages.WorkerInfoResponse, error) {
	return nil, ErrNotReady
}
