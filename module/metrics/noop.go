package metrics

import (
	"time"

	"github.com/onflow/flow-primary/module"
)

type NoopCollector struct{}

var _ module.IngestionMetrics = (*NoopCollector)(nil)
var _ module.ProposerMetrics = (*NoopCollector)(nil)
var _ module.CacheMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) OwnBatchAcknowledged(duration time.Duration) {}
func (nc *NoopCollector) PeerBatchStored()                            {}
func (nc *NoopCollector) ReportFailed(operation string)               {}
func (nc *NoopCollector) HandoffQueueLength(length int)               {}
func (nc *NoopCollector) HeaderSealed(round uint64, payloadSize int)  {}
func (nc *NoopCollector) PendingDigests(count int)                    {}
func (nc *NoopCollector) CacheEntries(resource string, entries uint)  {}
func (nc *NoopCollector) CacheHit(resource string)                    {}
func (nc *NoopCollector) CacheMiss(resource string)                   {}
