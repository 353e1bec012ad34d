package storage

import (
	"errors"
)

// ErrNotFound is returned when a key is not present in the store.
var ErrNotFound = errors.New("key not found")
