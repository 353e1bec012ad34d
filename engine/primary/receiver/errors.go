package receiver

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned by every operation of a receiver that has not been
// wired to the pipeline yet.
var ErrNotReady = errors.New("service not ready")

// InternalError indicates that a downstream collaborator of the receiver failed:
// the handoff channel was closed, the acknowledgment was dropped, or the
// payload store returned an error. The caller may retry.
type InternalError struct {
	err error
}

func NewInternalErrorf(msg string, args ...interface{}) error {
	return InternalError{
		err: fmt.Errorf(msg, args...),
	}
}

func (e InternalError) Error() string {
	return e.err.Error()
}

func (e InternalError) Unwrap() error {
	return e.err
}

// IsInternalError returns whether the given error is an InternalError.
func IsInternalError(err error) bool {
	var errInternal InternalError
	return errors.As(err, &errInternal)
}
