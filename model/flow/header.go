package flow

import (
	"encoding/binary"
	"time"

	"golang.org/x/crypto/blake2b"
)

// BatchRef points to a batch created by one of our workers.
type BatchRef struct {
	Digest   BatchDigest
	WorkerID WorkerID
}

// Header is the unit the primary proposes to its peers: a round number and the
// digests of the batches our workers reported since the previous header.
type Header struct {
	Round     uint64
	Payload   []BatchRef
	Timestamp time.Time
}

// ID returns the hash over the round and the payload of the header. The
// timestamp is not part of the ID.
func (h *Header) ID() BatchDigest {
	hasher, _ := blake2b.New256(nil)

	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], h.Round)
	_, _ = hasher.Write(scratch[:])

	for _, ref := range h.Payload {
		_, _ = hasher.Write(ref.Digest[:])
		binary.BigEndian.PutUint32(scratch[:4], uint32(ref.WorkerID))
		_, _ = hasher.Write(scratch[:4])
	}

	var id BatchDigest
	copy(id[:], hasher.Sum(nil))
	return id
}
