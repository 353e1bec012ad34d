package operation

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/flow-primary/storage"
)

// upsert writes the raw value under the given key, overwriting any existing value.
func upsert(key []byte, val []byte) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		err := tx.Set(key, val)
		if err != nil {
			return fmt.Errorf("could not store data: %w", err)
		}
		return nil
	}
}

// exists checks whether an entry with the given key is present.
func exists(key []byte, keyExists *bool) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			*keyExists = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not check existence: %w", err)
		}
		*keyExists = true
		return nil
	}
}

// retrieve copies the raw value under the given key into val.
// Returns storage.ErrNotFound if the key does not exist.
func retrieve(key []byte, val *[]byte) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("could not load data: %w", err)
		}
		*val, err = item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("could not copy value: %w", err)
		}
		return nil
	}
}

// remove deletes the entry with the given key. Removing an absent key is a no-op.
func remove(key []byte) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		err := tx.Delete(key)
		if err != nil {
			return fmt.Errorf("could not delete key %x: %w", key, err)
		}
		return nil
	}
}

// handleKeyFunc processes one key during a prefix traversal.
type handleKeyFunc func(key []byte) error

// traverse calls handle for every key with the given prefix, in ascending key order.
// Values are never loaded.
func traverse(prefix []byte, handle handleKeyFunc) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := handle(it.Item().KeyCopy(nil))
			if err != nil {
				return err
			}
		}
		return nil
	}
}
