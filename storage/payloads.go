package storage

import (
	"github.com/onflow/flow-primary/model/flow"
)

// BatchPayloads records which workers are known to hold which batches. An entry
// carries no value beyond its presence.
type BatchPayloads interface {

	// Store records that the batch with the given digest is available at the
	// given worker. Storing an existing entry is a no-op. The entry is durable
	// once Store returns without error.
	Store(digest flow.BatchDigest, workerID flow.WorkerID) error

	// Has returns true if the entry is present.
	Has(digest flow.BatchDigest, workerID flow.WorkerID) (bool, error)

	// WorkersFor returns, in ascending order, the workers known to hold the batch.
	// Returns an empty list if no worker is known.
	WorkersFor(digest flow.BatchDigest) ([]flow.WorkerID, error)

	// Remove deletes the entry. Removing an absent entry is a no-op.
	Remove(digest flow.BatchDigest, workerID flow.WorkerID) error
}
