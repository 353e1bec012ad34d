package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onflow/flow-primary/module"
)

// IngestionCollector collects metrics of the worker receiver and the proposer.
type IngestionCollector struct {
	ownBatchWait    prometheus.Histogram
	peerBatches     prometheus.Counter
	failedReports   *prometheus.CounterVec
	handoffLength   prometheus.Gauge
	headersSealed   prometheus.Counter
	headerSize      prometheus.Histogram
	lastSealedRound prometheus.Gauge
	pendingDigests  prometheus.Gauge
}

var _ module.IngestionMetrics = (*IngestionCollector)(nil)
var _ module.ProposerMetrics = (*IngestionCollector)(nil)

func NewIngestionCollector(registerer prometheus.Registerer) *IngestionCollector {
	factory := promauto.With(registerer)

	ic := &IngestionCollector{
		ownBatchWait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespacePrimary,
			Subsystem: subsystemIngestion,
			Name:      "own_batch_ack_seconds",
			Help:      "time an own batch report waited for the pipeline acknowledgment",
			Buckets:   []float64{.001, .01, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		peerBatches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespacePrimary,
			Subsystem: subsystemIngestion,
			Name:      "peer_batches_stored_total",
			Help:      "number of peer batch reports persisted",
		}),
		failedReports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespacePrimary,
			Subsystem: subsystemIngestion,
			Name:      "failed_reports_total",
			Help:      "number of worker reports that failed, by operation",
		}, []string{LabelOperation}),
		handoffLength: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespacePrimary,
			Subsystem: subsystemIngestion,
			Name:      "handoff_queue_length",
			Help:      "number of own digests waiting for the proposer",
		}),
		headersSealed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespacePrimary,
			Subsystem: subsystemProposer,
			Name:      "headers_sealed_total",
			Help:      "number of headers sealed by the proposer",
		}),
		headerSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespacePrimary,
			Subsystem: subsystemProposer,
			Name:      "header_payload_size",
			Help:      "number of batch digests per sealed header",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 500},
		}),
		lastSealedRound: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespacePrimary,
			Subsystem: subsystemProposer,
			Name:      "last_sealed_round",
			Help:      "round of the most recently sealed header",
		}),
		pendingDigests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespacePrimary,
			Subsystem: subsystemProposer,
			Name:      "pending_digests",
			Help:      "number of digests waiting to be included in a header",
		}),
	}

	return ic
}

func (ic *IngestionCollector) OwnBatchAcknowledged(duration time.Duration) {
	ic.ownBatchWait.Observe(duration.Seconds())
}

func (ic *IngestionCollector) PeerBatchStored() {
	ic.peerBatches.Inc()
}

func (ic *IngestionCollector) ReportFailed(operation string) {
	ic.failedReports.WithLabelValues(operation).Inc()
}

func (ic *IngestionCollector) HandoffQueueLength(length int) {
	ic.handoffLength.Set(float64(length))
}

func (ic *IngestionCollector) HeaderSealed(round uint64, payloadSize int) {
	ic.headersSealed.Inc()
	ic.headerSize.Observe(float64(payloadSize))
	ic.lastSealedRound.Set(float64(round))
}

func (ic *IngestionCollector) PendingDigests(count int) {
	ic.pendingDigests.Set(float64(count))
}
