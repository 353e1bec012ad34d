// Package oneshot implements a single-value, single-use signal between one
// producer and one consumer. The consumer observes either the value or that the
// producer gave up without sending one.
package oneshot

import (
	"context"
	"errors"

	"go.uber.org/atomic"
)

var (
	// ErrDropped is returned by Wait when the sender was dropped without sending.
	ErrDropped = errors.New("acknowledgment dropped before it was sent")

	// ErrAlreadyUsed is returned when Send or Drop is called on a sender that
	// was already used.
	ErrAlreadyUsed = errors.New("acknowledgment already used")
)

// Sender is the producing end. Exactly one of Send or Drop takes effect.
// Neither ever blocks, even if the receiver is gone.
type Sender struct {
	used *atomic.Bool
	ch   chan struct{}
}

// Receiver is the consuming end.
type Receiver struct {
	ch <-chan struct{}
}

// New creates a connected sender and receiver.
func New() (*Sender, *Receiver) {
	ch := make(chan struct{}, 1)
	return &Sender{used: atomic.NewBool(false), ch: ch}, &Receiver{ch: ch}
}

// Send delivers the signal.
func (s *Sender) Send() error {
	if !s.used.CAS(false, true) {
		return ErrAlreadyUsed
	}
	s.ch <- struct{}{}
	close(s.ch)
	return nil
}

// Drop closes the sender without a value. The receiver gets ErrDropped.
func (s *Sender) Drop() error {
	if !s.used.CAS(false, true) {
		return ErrAlreadyUsed
	}
	close(s.ch)
	return nil
}

// Used returns true once Send or Drop has been called.
func (s *Sender) Used() bool {
	return s.used.Load()
}

// Wait blocks until the sender is used or the context is done.
// Returns nil when the signal was sent, ErrDropped when the sender was dropped,
// and the context error otherwise.
func (r *Receiver) Wait(ctx context.Context) error {
	select {
	case _, ok := <-r.ch:
		if !ok {
			return ErrDropped
		}
		return nil
	case <-ctx.Done():
		// a value that arrived together with the cancellation still counts
		select {
		case _, ok := <-r.ch:
			if ok {
				return nil
			}
			return ErrDropped
		default:
		}
		return ctx.Err()
	}
}
