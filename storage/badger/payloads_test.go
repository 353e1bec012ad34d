package badger_test

import (
	"testing"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/flow-primary/storage"
	bstorage "github.com/onflow/flow-primary/storage/badger"
	"github.com/onflow/flow-primary/storage/testutil"
	"github.com/onflow/flow-primary/utils/unittest"
)

func TestPayloads(t *testing.T) {
	testutil.RunPayloadsTests(t, func(t *testing.T, f func(storage.BatchPayloads)) {
		unittest.RunWithBadgerDB(t, func(db *badger.DB) {
			f(bstorage.NewPayloads(db))
		})
	})
}
