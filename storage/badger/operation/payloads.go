package operation

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/storage/operation"
)

// InsertPayload records that the batch is available at the worker. Writing an
// existing entry leaves it unchanged.
func InsertPayload(digest flow.BatchDigest, workerID flow.WorkerID) func(*badger.Txn) error {
	return upsert(operation.PayloadKey(digest, workerID), operation.PayloadMarker)
}

// HasPayload checks whether the (digest, worker) entry exists.
func HasPayload(digest flow.BatchDigest, workerID flow.WorkerID, found *bool) func(*badger.Txn) error {
	return exists(operation.PayloadKey(digest, workerID), found)
}

// RemovePayload deletes the (digest, worker) entry.
func RemovePayload(digest flow.BatchDigest, workerID flow.WorkerID) func(*badger.Txn) error {
	return remove(operation.PayloadKey(digest, workerID))
}

// LookupPayloadWorkers collects the workers holding the batch in ascending order.
func LookupPayloadWorkers(digest flow.BatchDigest, workerIDs *[]flow.WorkerID) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		*workerIDs = make([]flow.WorkerID, 0)
		return traverse(operation.PayloadPrefix(digest), func(key []byte) error {
			workerID, err := operation.PayloadWorker(key)
			if err != nil {
				return fmt.Errorf("could not decode payload key: %w", err)
			}
			*workerIDs = append(*workerIDs, workerID)
			return nil
		})(tx)
	}
}
