package module

import (
	"time"
)

// IngestionMetrics tracks the batch reports received from our workers.
type IngestionMetrics interface {
	// OwnBatchAcknowledged is called when an own batch report was acknowledged
	// by the pipeline, with the time the caller spent waiting.
	OwnBatchAcknowledged(duration time.Duration)

	// PeerBatchStored is called when a peer batch report was persisted.
	PeerBatchStored()

	// ReportFailed is called when a report of the given kind failed.
	ReportFailed(operation string)

	// HandoffQueueLength reports the number of events waiting for the pipeline.
	HandoffQueueLength(length int)
}

// ProposerMetrics tracks the headers sealed by the proposer.
type ProposerMetrics interface {
	// HeaderSealed is called for every sealed header with its payload size.
	HeaderSealed(round uint64, payloadSize int)

	// PendingDigests reports the number of digests waiting to be included in a header.
	PendingDigests(count int)
}

// CacheMetrics tracks the write-dedup cache in front of the payload store.
type CacheMetrics interface {
	// CacheEntries reports the number of entries in the cache.
	CacheEntries(resource string, entries uint)

	// CacheHit is called when a key was found in the cache.
	CacheHit(resource string)

	// CacheMiss is called when a key was not found in the cache.
	CacheMiss(resource string)
}
