package operation

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/flow-primary/storage"
	"github.com/onflow/flow-primary/storage/operation"
)

// EnsureVersion stores the given schema version in an empty database, or
// checks that a populated database carries the same version.
func EnsureVersion(version uint32) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		var stored []byte
		err := retrieve(operation.VersionKey(), &stored)(tx)
		if errors.Is(err, storage.ErrNotFound) {
			val := make([]byte, 4)
			binary.BigEndian.PutUint32(val, version)
			return upsert(operation.VersionKey(), val)(tx)
		}
		if err != nil {
			return fmt.Errorf("could not read schema version: %w", err)
		}
		if len(stored) != 4 || binary.BigEndian.Uint32(stored) != version {
			return fmt.Errorf("database schema version mismatch (stored: %x, expected: %d)", stored, version)
		}
		return nil
	}
}
