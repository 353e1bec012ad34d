package pebble

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/hashicorp/go-multierror"

	"github.com/onflow/flow-primary/storage/operation"
)

// SchemaVersion is the version of the key layout written by this package.
const SchemaVersion uint32 = 1

// Open opens (or creates) the pebble database in the given directory and
// checks the schema version.
func Open(dir string) (*pebble.DB, error) {
	cache := pebble.NewCache(1 << 20)
	defer cache.Unref()

	return open(dir, &pebble.Options{Cache: cache})
}

// OpenInMemory opens a pebble database backed by an in-memory filesystem.
// Intended for tests.
func OpenInMemory() (*pebble.DB, error) {
	return open("", &pebble.Options{FS: vfs.NewMem()})
}

func open(dir string, opts *pebble.Options) (*pebble.DB, error) {
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	err = ensureVersion(db, SchemaVersion)
	if err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("failed to close db: %w", closeErr))
		}
		return nil, fmt.Errorf("failed to initialize db: %w", err)
	}

	return db, nil
}

func ensureVersion(db *pebble.DB, version uint32) error {
	stored, closer, err := db.Get(operation.VersionKey())
	if errors.Is(err, pebble.ErrNotFound) {
		val := make([]byte, 4)
		binary.BigEndian.PutUint32(val, version)
		return db.Set(operation.VersionKey(), val, pebble.Sync)
	}
	if err != nil {
		return fmt.Errorf("could not read schema version: %w", err)
	}
	defer closer.Close()

	if len(stored) != 4 || binary.BigEndian.Uint32(stored) != version {
		return fmt.Errorf("database schema version mismatch (stored: %x, expected: %d)", stored, version)
	}
	return nil
}
