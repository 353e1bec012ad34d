package unittest

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/model/messages"
)

// BatchDigestFixture returns a random digest.
func BatchDigestFixture() flow.BatchDigest {
	var digest flow.BatchDigest
	_, _ = rand.Read(digest[:])
	return digest
}

// BatchDigestListFixture returns n random digests.
func BatchDigestListFixture(n int) []flow.BatchDigest {
	digests := make([]flow.BatchDigest, 0, n)
	for i := 0; i < n; i++ {
		digests = append(digests, BatchDigestFixture())
	}
	return digests
}

// WorkerInfoFixture returns a valid worker info with addresses derived from the index.
func WorkerInfoFixture(index int) flow.WorkerInfo {
	key := make([]byte, 32)
	_, _ = rand.Read(key)
	return flow.WorkerInfo{
		Name:          hex.EncodeToString(key),
		Transactions:  fmt.Sprintf("/ip4/127.0.0.1/tcp/%d", 7000+2*index),
		WorkerAddress: fmt.Sprintf("/ip4/127.0.0.1/tcp/%d", 7001+2*index),
	}
}

// WorkerTableFixture returns a table of n workers with ids 0 to n-1.
func WorkerTableFixture(n int) map[flow.WorkerID]flow.WorkerInfo {
	workers := make(map[flow.WorkerID]flow.WorkerInfo, n)
	for i := 0; i < n; i++ {
		workers[flow.WorkerID(i)] = WorkerInfoFixture(i)
	}
	return workers
}

// WorkerTopologyFixture returns a topology of n workers with ids 0 to n-1.
func WorkerTopologyFixture(n int) *flow.WorkerTopology {
	topology, err := flow.NewWorkerTopology(WorkerTableFixture(n))
	if err != nil {
		panic(err)
	}
	return topology
}

// OwnBatchReportFixture returns a report of a random digest by the given worker.
func OwnBatchReportFixture(workerID flow.WorkerID) *messages.OwnBatchReport {
	return &messages.OwnBatchReport{
		Digest:    BatchDigestFixture(),
		WorkerID:  workerID,
		CreatedAt: uint64(time.Now().UnixMilli()),
	}
}

// PeerBatchReportFixture returns a report of a random digest by the given worker.
func PeerBatchReportFixture(workerID flow.WorkerID) *messages.PeerBatchReport {
	return &messages.PeerBatchReport{
		Digest:   BatchDigestFixture(),
		WorkerID: workerID,
	}
}
