package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/storage"
	"github.com/onflow/flow-primary/storage/badger/operation"
)

// Payloads implements the payload store on badger.
type Payloads struct {
	db *badger.DB
}

var _ storage.BatchPayloads = (*Payloads)(nil)

func NewPayloads(db *badger.DB) *Payloads {
	return &Payloads{db: db}
}

func (p *Payloads) Store(digest flow.BatchDigest, workerID flow.WorkerID) error {
	err := p.db.Update(operation.InsertPayload(digest, workerID))
	if err != nil {
		return fmt.Errorf("could not store payload %x from worker %d: %w", digest, workerID, err)
	}
	return nil
}

func (p *Payloads) Has(digest flow.BatchDigest, workerID flow.WorkerID) (bool, error) {
	var found bool
	err := p.db.View(operation.HasPayload(digest, workerID, &found))
	if err != nil {
		return false, fmt.Errorf("could not check payload %x from worker %d: %w", digest, workerID, err)
	}
	return found, nil
}

func (p *Payloads) WorkersFor(digest flow.BatchDigest) ([]flow.WorkerID, error) {
	var workerIDs []flow.WorkerID
	err := p.db.View(operation.LookupPayloadWorkers(digest, &workerIDs))
	if err != nil {
		return nil, fmt.Errorf("could not look up workers for payload %x: %w", digest, err)
	}
	return workerIDs, nil
}

func (p *Payloads) Remove(digest flow.BatchDigest, workerID flow.WorkerID) error {
	err := p.db.Update(operation.RemovePayload(digest, workerID))
	if err != nil {
		return fmt.Errorf("could not remove payload %x from worker %d: %w", digest, workerID, err)
	}
	return nil
}
