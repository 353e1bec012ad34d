package messages

import (
	"time"

	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/module/oneshot"
)

// OwnBatchReport is sent by a worker of this primary for every batch it sealed itself.
type OwnBatchReport struct {
	Digest   flow.BatchDigest `cbor:"1,keyasint"`
	WorkerID flow.WorkerID    `cbor:"2,keyasint"`
	// CreatedAt is the batch creation time in unix milliseconds.
	CreatedAt uint64 `cbor:"3,keyasint"`
}

// PeerBatchReport is sent by a worker of this primary for every batch it
// received from a worker of another primary.
type PeerBatchReport struct {
	Digest   flow.BatchDigest `cbor:"1,keyasint"`
	WorkerID flow.WorkerID    `cbor:"2,keyasint"`
}

// WorkerInfoRequest asks for the worker topology of the primary.
type WorkerInfoRequest struct{}

// WorkerInfoResponse carries the worker topology of the primary.
type WorkerInfoResponse struct {
	Workers map[flow.WorkerID]flow.WorkerInfo `cbor:"1,keyasint"`
}

// Empty is the response of the report methods.
type Empty struct{}

// OurDigest is the event a reported own batch turns into on the primary. The
// consumer must call exactly one of Ack.Send or Ack.Drop.
type OurDigest struct {
	Digest    flow.BatchDigest
	WorkerID  flow.WorkerID
	Timestamp time.Time
	Ack       *oneshot.Sender
}
