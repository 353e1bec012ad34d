// Package operation holds the key layout shared by the storage engines.
package operation

import (
	"encoding/binary"
	"fmt"

	"github.com/onflow/flow-primary/model/flow"
)

const (
	// codes for the different entity types; the first byte of each key
	codeDBVersion = 1
	codePayload   = 10 // (digest, worker) -> marker
)

// PayloadMarker is the value stored for every payload entry.
var PayloadMarker = []byte{0}

const payloadKeyLen = 1 + flow.DigestLength + 4

// PayloadKey returns the key of the (digest, worker) entry.
func PayloadKey(digest flow.BatchDigest, workerID flow.WorkerID) []byte {
	key := make([]byte, payloadKeyLen)
	key[0] = codePayload
	copy(key[1:], digest[:])
	binary.BigEndian.PutUint32(key[1+flow.DigestLength:], uint32(workerID))
	return key
}

// PayloadPrefix returns the prefix shared by all entries of the given digest.
func PayloadPrefix(digest flow.BatchDigest) []byte {
	prefix := make([]byte, 1+flow.DigestLength)
	prefix[0] = codePayload
	copy(prefix[1:], digest[:])
	return prefix
}

// PayloadWorker extracts the worker ID from a payload key.
func PayloadWorker(key []byte) (flow.WorkerID, error) {
	if len(key) != payloadKeyLen || key[0] != codePayload {
		return 0, fmt.Errorf("not a payload key: %x", key)
	}
	return flow.WorkerID(binary.BigEndian.Uint32(key[1+flow.DigestLength:])), nil
}

// VersionKey is the key under which the schema version of a database is kept.
func VersionKey() []byte {
	return []byte{codeDBVersion}
}

// PrefixUpperBound returns the smallest key greater than every key with the
// given prefix, or nil if no such key exists.
func PrefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
