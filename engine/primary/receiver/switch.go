package receiver

import (
	"context"
	"errors"

	"go.uber.org/atomic"

	"github.com/onflow/flow-primary/model/messages"
)

// ErrAlreadyActive is returned when Activate is called more than once.
var ErrAlreadyActive = errors.New("receiver already activated")

// Switch lets the transport bind the receiver endpoint before the pipeline
// exists. It serves Unavailable until Activate installs the real receiver,
// which then serves every following request.
type Switch struct {
	active    *atomic.Bool
	delegated atomic.Value
}

var _ Receiver = (*Switch)(nil)

// holder keeps the stored type constant, as required by atomic.Value.
type holder struct {
	Receiver
}

func NewSwitch() *Switch {
	s := &Switch{active: atomic.NewBool(false)}
	s.delegated.Store(holder{Unavailable{}})
	return s
}

// Activate installs the real receiver. It may be called once.
func (s *Switch) Activate(r Receiver) error {
	if !s.active.CAS(false, true) {
		return ErrAlreadyActive
	}
	s.delegated.Store(holder{r})
	return nil
}

// Active returns true once Activate succeeded.
func (s *Switch) Active() bool {
	return s.active.Load()
}

func (s *Switch) current() Receiver {
	return s.delegated.Load().(holder).Receiver
}

func (s *Switch) ReportOwnBatch(ctx context.Context, report *messages.OwnBatchReport) error {
	return s.current().ReportOwnBatch(ctx, report)
}

func (s *Switch) ReportOthersBatch(ctx context.Context, report *messages.PeerBatchReport) error {
	return s.current().ReportOthersBatch(ctx, report)
}

func (s *Switch) WorkerInfo(ctx context.Context) (*messages.WorkerInfoResponse, error) {
	return s.current().WorkerInfo(ctx)
}
