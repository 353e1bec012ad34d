package store_test

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/module/metrics"
	"github.com/onflow/flow-primary/storage"
	pstorage "github.com/onflow/flow-primary/storage/pebble"
	storagemock "github.com/onflow/flow-primary/storage/mock"
	"github.com/onflow/flow-primary/storage/store"
	"github.com/onflow/flow-primary/storage/testutil"
	"github.com/onflow/flow-primary/utils/unittest"
)

func TestCachedPayloads(t *testing.T) {
	testutil.RunPayloadsTests(t, func(t *testing.T, f func(storage.BatchPayloads)) {
		unittest.RunWithPebbleDB(t, func(db *pebble.DB) {
			cached, err := store.NewCachedPayloads(metrics.NewNoopCollector(), pstorage.NewPayloads(db), 4)
			require.NoError(t, err)
			f(cached)
		})
	})
}

// TestCachedPayloads_RepeatedStore checks that storing an entry again does not
// reach the backend.
func TestCachedPayloads_RepeatedStore(t *testing.T) {
	backend := storagemock.NewBatchPayloads(t)
	cached, err := store.NewCachedPayloads(metrics.NewNoopCollector(), backend, store.DefaultCacheSize)
	require.NoError(t, err)

	digest := unittest.BatchDigestFixture()
	backend.On("Store", digest, flow.WorkerID(1)).Return(nil).Once()

	for i := 0; i < 3; i++ {
		require.NoError(t, cached.Store(digest, 1))
	}

	found, err := cached.Has(digest, 1)
	require.NoError(t, err)
	assert.True(t, found)
	backend.AssertNumberOfCalls(t, "Store", 1)
	backend.AssertNotCalled(t, "Has", digest, flow.WorkerID(1))
}

// TestCachedPayloads_FailedStore checks that a failed write is not cached.
func TestCachedPayloads_FailedStore(t *testing.T) {
	backend := storagemock.NewBatchPayloads(t)
	cached, err := store.NewCachedPayloads(metrics.NewNoopCollector(), backend, store.DefaultCacheSize)
	require.NoError(t, err)

	digest := unittest.BatchDigestFixture()
	backend.On("Store", digest, flow.WorkerID(1)).Return(fmt.Errorf("disk full")).Once()
	backend.On("Store", digest, flow.WorkerID(1)).Return(nil).Once()

	require.Error(t, cached.Store(digest, 1))
	require.NoError(t, cached.Store(digest, 1))
	backend.AssertNumberOfCalls(t, "Store", 2)
}

// TestCachedPayloads_Remove checks that a removed entry is looked up in the backend again.
func TestCachedPayloads_Remove(t *testing.T) {
	backend := storagemock.NewBatchPayloads(t)
	cached, err := store.NewCachedPayloads(metrics.NewNoopCollector(), backend, store.DefaultCacheSize)
	require.NoError(t, err)

	digest := unittest.BatchDigestFixture()
	backend.On("Store", digest, flow.WorkerID(1)).Return(nil).Once()
	backend.On("Remove", digest, flow.WorkerID(1)).Return(nil).Once()
	backend.On("Has", digest, flow.WorkerID(1)).Return(false, nil).Once()

	require.NoError(t, cached.Store(digest, 1))
	require.NoError(t, cached.Remove(digest, 1))

	found, err := cached.Has(digest, 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewCachedPayloads_InvalidSize(t *testing.T) {
	_, err := store.NewCachedPayloads(metrics.NewNoopCollector(), storagemock.NewBatchPayloads(t), 0)
	require.Error(t, err)
}
