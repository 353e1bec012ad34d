// Package testutil holds the behaviour tests every payload store implementation must pass.
package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/storage"
	"github.com/onflow/flow-primary/utils/unittest"
)

// RunPayloadsTests runs the payload store tests against stores created by the
// given function. Each subtest gets a fresh store.
func RunPayloadsTests(t *testing.T, withPayloads func(t *testing.T, f func(storage.BatchPayloads))) {
	t.Run("store then has", func(t *testing.T) {
		withPayloads(t, func(payloads storage.BatchPayloads) {
			digest := unittest.BatchDigestFixture()

			found, err := payloads.Has(digest, 1)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, payloads.Store(digest, 1))

			found, err = payloads.Has(digest, 1)
			require.NoError(t, err)
			assert.True(t, found)

			// other workers and digests are unaffected
			found, err = payloads.Has(digest, 2)
			require.NoError(t, err)
			assert.False(t, found)
			found, err = payloads.Has(unittest.BatchDigestFixture(), 1)
			require.NoError(t, err)
			assert.False(t, found)
		})
	})

	t.Run("store is idempotent", func(t *testing.T) {
		withPayloads(t, func(payloads storage.BatchPayloads) {
			digest := unittest.BatchDigestFixture()
			for i := 0; i < 3; i++ {
				require.NoError(t, payloads.Store(digest, 7))
			}
			workers, err := payloads.WorkersFor(digest)
			require.NoError(t, err)
			assert.Equal(t, []flow.WorkerID{7}, workers)
		})
	})

	t.Run("workers for digest are sorted", func(t *testing.T) {
		withPayloads(t, func(payloads storage.BatchPayloads) {
			digest := unittest.BatchDigestFixture()
			other := unittest.BatchDigestFixture()

			for _, id := range []flow.WorkerID{300, 2, 1 << 24, 0} {
				require.NoError(t, payloads.Store(digest, id))
			}
			require.NoError(t, payloads.Store(other, 5))

			workers, err := payloads.WorkersFor(digest)
			require.NoError(t, err)
			assert.Equal(t, []flow.WorkerID{0, 2, 300, 1 << 24}, workers)
		})
	})

	t.Run("workers for unknown digest is empty", func(t *testing.T) {
		withPayloads(t, func(payloads storage.BatchPayloads) {
			workers, err := payloads.WorkersFor(unittest.BatchDigestFixture())
			require.NoError(t, err)
			assert.Empty(t, workers)
		})
	})

	t.Run("workers for the highest digest", func(t *testing.T) {
		withPayloads(t, func(payloads storage.BatchPayloads) {
			var highest flow.BatchDigest
			for i := range highest {
				highest[i] = 0xff
			}
			require.NoError(t, payloads.Store(highest, 3))

			workers, err := payloads.WorkersFor(highest)
			require.NoError(t, err)
			assert.Equal(t, []flow.WorkerID{3}, workers)
		})
	})

	t.Run("remove", func(t *testing.T) {
		withPayloads(t, func(payloads storage.BatchPayloads) {
			digest := unittest.BatchDigestFixture()
			require.NoError(t, payloads.Store(digest, 1))
			require.NoError(t, payloads.Store(digest, 2))

			require.NoError(t, payloads.Remove(digest, 1))
			found, err := payloads.Has(digest, 1)
			require.NoError(t, err)
			assert.False(t, found)

			workers, err := payloads.WorkersFor(digest)
			require.NoError(t, err)
			assert.Equal(t, []flow.WorkerID{2}, workers)

			// removing an absent entry is a no-op
			require.NoError(t, payloads.Remove(digest, 1))
			require.NoError(t, payloads.Remove(unittest.BatchDigestFixture(), 9))
		})
	})

	t.Run("concurrent stores", func(t *testing.T) {
		withPayloads(t, func(payloads storage.BatchPayloads) {
			digest := unittest.BatchDigestFixture()
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					assert.NoError(t, payloads.Store(digest, flow.WorkerID(i%5)))
				}(i)
			}
			wg.Wait()

			workers, err := payloads.WorkersFor(digest)
			require.NoError(t, err)
			assert.Equal(t, []flow.WorkerID{0, 1, 2, 3, 4}, workers)
		})
	})
}
