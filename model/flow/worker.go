package flow

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/multiformats/go-multiaddr"
)

// WorkerID identifies a worker process of a primary.
type WorkerID uint32

// WorkerInfo holds the connection information of one worker.
type WorkerInfo struct {
	// Name is the hex encoded network public key of the worker.
	Name string `yaml:"name" cbor:"1,keyasint"`
	// Transactions is the multiaddr on which the worker accepts client transactions.
	Transactions string `yaml:"transactions" cbor:"2,keyasint"`
	// WorkerAddress is the multiaddr used by other workers and the primary.
	WorkerAddress string `yaml:"worker_address" cbor:"3,keyasint"`
}

// Validate checks that the key is hex encoded and both addresses are valid multiaddrs.
func (w WorkerInfo) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("missing worker name")
	}
	if _, err := hex.DecodeString(w.Name); err != nil {
		return fmt.Errorf("worker name is not a hex encoded key: %w", err)
	}
	if _, err := multiaddr.NewMultiaddr(w.Transactions); err != nil {
		return fmt.Errorf("invalid transactions address %q: %w", w.Transactions, err)
	}
	if _, err := multiaddr.NewMultiaddr(w.WorkerAddress); err != nil {
		return fmt.Errorf("invalid worker address %q: %w", w.WorkerAddress, err)
	}
	return nil
}

// WorkerTopology is the table of workers belonging to this primary. It is built
// once at startup and never modified afterwards, so it can be read concurrently
// without synchronization.
type WorkerTopology struct {
	ids     []WorkerID
	workers map[WorkerID]WorkerInfo
}

// NewWorkerTopology creates a topology from the given table. The input is copied,
// later changes to the map do not affect the topology.
func NewWorkerTopology(workers map[WorkerID]WorkerInfo) (*WorkerTopology, error) {
	t := &WorkerTopology{
		ids:     make([]WorkerID, 0, len(workers)),
		workers: make(map[WorkerID]WorkerInfo, len(workers)),
	}
	for id, info := range workers {
		err := info.Validate()
		if err != nil {
			return nil, fmt.Errorf("invalid info for worker %d: %w", id, err)
		}
		t.ids = append(t.ids, id)
		t.workers[id] = info
	}
	sort.Slice(t.ids, func(i, j int) bool { return t.ids[i] < t.ids[j] })
	return t, nil
}

// Len returns the number of workers.
func (t *WorkerTopology) Len() int {
	return len(t.ids)
}

// IDs returns the worker IDs in ascending order.
func (t *WorkerTopology) IDs() []WorkerID {
	ids := make([]WorkerID, len(t.ids))
	copy(ids, t.ids)
	return ids
}

// ByID returns the info of the given worker.
func (t *WorkerTopology) ByID(id WorkerID) (WorkerInfo, bool) {
	info, ok := t.workers[id]
	return info, ok
}

// Workers returns a copy of the table.
func (t *WorkerTopology) Workers() map[WorkerID]WorkerInfo {
	workers := make(map[WorkerID]WorkerInfo, len(t.workers))
	for id, info := range t.workers {
		workers[id] = info
	}
	return workers
}
