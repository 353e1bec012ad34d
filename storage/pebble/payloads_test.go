package pebble_test

import (
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-primary/storage"
	pstorage "github.com/onflow/flow-primary/storage/pebble"
	"github.com/onflow/flow-primary/storage/testutil"
	"github.com/onflow/flow-primary/utils/unittest"
)

func TestPayloads(t *testing.T) {
	testutil.RunPayloadsTests(t, func(t *testing.T, f func(storage.BatchPayloads)) {
		unittest.RunWithPebbleDB(t, func(db *pebble.DB) {
			f(pstorage.NewPayloads(db))
		})
	})
}

func TestOpen(t *testing.T) {
	t.Run("entries survive a restart", func(t *testing.T) {
		unittest.RunWithTempDir(t, func(dir string) {
			digest := unittest.BatchDigestFixture()

			db, err := pstorage.Open(dir)
			require.NoError(t, err)
			require.NoError(t, pstorage.NewPayloads(db).Store(digest, 4))
			require.NoError(t, db.Close())

			db, err = pstorage.Open(dir)
			require.NoError(t, err)
			defer db.Close()

			found, err := pstorage.NewPayloads(db).Has(digest, 4)
			require.NoError(t, err)
			assert.True(t, found)
		})
	})

	t.Run("in memory", func(t *testing.T) {
		db, err := pstorage.OpenInMemory()
		require.NoError(t, err)
		defer db.Close()

		workers, err := pstorage.NewPayloads(db).WorkersFor(unittest.BatchDigestFixture())
		require.NoError(t, err)
		assert.Empty(t, workers)
	})
}
