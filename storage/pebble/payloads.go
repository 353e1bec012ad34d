package pebble

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/hashicorp/go-multierror"

	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/storage"
	"github.com/onflow/flow-primary/storage/operation"
)

// Payloads implements the payload store on pebble. Every write is synced.
type Payloads struct {
	db *pebble.DB
}

var _ storage.BatchPayloads = (*Payloads)(nil)

func NewPayloads(db *pebble.DB) *Payloads {
	return &Payloads{db: db}
}

func (p *Payloads) Store(digest flow.BatchDigest, workerID flow.WorkerID) error {
	err := p.db.Set(operation.PayloadKey(digest, workerID), operation.PayloadMarker, pebble.Sync)
	if err != nil {
		return fmt.Errorf("could not store payload %x from worker %d: %w", digest, workerID, err)
	}
	return nil
}

func (p *Payloads) Has(digest flow.BatchDigest, workerID flow.WorkerID) (bool, error) {
	_, closer, err := p.db.Get(operation.PayloadKey(digest, workerID))
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not check payload %x from worker %d: %w", digest, workerID, err)
	}
	err = closer.Close()
	if err != nil {
		return false, fmt.Errorf("could not release value: %w", err)
	}
	return true, nil
}

func (p *Payloads) WorkersFor(digest flow.BatchDigest) (workerIDs []flow.WorkerID, errToReturn error) {
	prefix := operation.PayloadPrefix(digest)
	it, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: operation.PrefixUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create iterator: %w", err)
	}
	defer func() {
		closeErr := it.Close()
		if closeErr != nil {
			errToReturn = multierror.Append(errToReturn, fmt.Errorf("could not close iterator: %w", closeErr)).ErrorOrNil()
		}
	}()

	workerIDs = make([]flow.WorkerID, 0)
	for it.First(); it.Valid(); it.Next() {
		workerID, err := operation.PayloadWorker(it.Key())
		if err != nil {
			return nil, fmt.Errorf("could not decode payload key: %w", err)
		}
		workerIDs = append(workerIDs, workerID)
	}
	return workerIDs, nil
}

func (p *Payloads) Remove(digest flow.BatchDigest, workerID flow.WorkerID) error {
	err := p.db.Delete(operation.PayloadKey(digest, workerID), pebble.Sync)
	if err != nil {
		return fmt.Errorf("could not remove payload %x from worker %d: %w", digest, workerID, err)
	}
	return nil
}
