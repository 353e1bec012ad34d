package store

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/module"
	"github.com/onflow/flow-primary/module/metrics"
	"github.com/onflow/flow-primary/storage"
)

// DefaultCacheSize is the number of entries remembered by CachedPayloads.
const DefaultCacheSize = 10_000

// CachedPayloads remembers recently stored entries so that repeated reports of
// the same (digest, worker) pair do not hit the database again.
type CachedPayloads struct {
	// Store holds the read lock, Remove the write lock, so that a removal can
	// never leave a stale entry in the cache.
	mu      sync.RWMutex
	backend storage.BatchPayloads
	cache   *lru.Cache[flow.BatchRef, struct{}]
	metrics module.CacheMetrics
}

var _ storage.BatchPayloads = (*CachedPayloads)(nil)

func NewCachedPayloads(collector module.CacheMetrics, backend storage.BatchPayloads, size int) (*CachedPayloads, error) {
	cache, err := lru.New[flow.BatchRef, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("could not create cache: %w", err)
	}
	collector.CacheEntries(metrics.ResourcePayloads, 0)
	return &CachedPayloads{
		backend: backend,
		cache:   cache,
		metrics: collector,
	}, nil
}

func (c *CachedPayloads) Store(digest flow.BatchDigest, workerID flow.WorkerID) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ref := flow.BatchRef{Digest: digest, WorkerID: workerID}
	if c.cache.Contains(ref) {
		c.metrics.CacheHit(metrics.ResourcePayloads)
		return nil
	}
	c.metrics.CacheMiss(metrics.ResourcePayloads)

	err := c.backend.Store(digest, workerID)
	if err != nil {
		return err
	}
	c.add(ref)
	return nil
}

func (c *CachedPayloads) Has(digest flow.BatchDigest, workerID flow.WorkerID) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ref := flow.BatchRef{Digest: digest, WorkerID: workerID}
	if c.cache.Contains(ref) {
		c.metrics.CacheHit(metrics.ResourcePayloads)
		return true, nil
	}
	c.metrics.CacheMiss(metrics.ResourcePayloads)

	found, err := c.backend.Has(digest, workerID)
	if err != nil {
		return false, err
	}
	if found {
		c.add(ref)
	}
	return found, nil
}

func (c *CachedPayloads) WorkersFor(digest flow.BatchDigest) ([]flow.WorkerID, error) {
	return c.backend.WorkersFor(digest)
}

func (c *CachedPayloads) Remove(digest flow.BatchDigest, workerID flow.WorkerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Remove(flow.BatchRef{Digest: digest, WorkerID: workerID})
	c.metrics.CacheEntries(metrics.ResourcePayloads, uint(c.cache.Len()))
	return c.backend.Remove(digest, workerID)
}

func (c *CachedPayloads) add(ref flow.BatchRef) {
	evicted := c.cache.Add(ref, struct{}{})
	if !evicted {
		c.metrics.CacheEntries(metrics.ResourcePayloads, uint(c.cache.Len()))
	}
}
