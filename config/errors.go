package config

import (
	"errors"
	"fmt"
)

// InvalidConfigError is returned when the loaded configuration does not pass validation.
type InvalidConfigError struct {
	err error
}

func NewInvalidConfigError(err error) InvalidConfigError {
	return InvalidConfigError{err: err}
}

func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.err.Error())
}

func (e InvalidConfigError) Unwrap() error {
	return e.err
}

// IsInvalidConfigError returns whether the given error is an InvalidConfigError.
func IsInvalidConfigError(err error) bool {
	var e InvalidConfigError
	return errors.As(err, &e)
}
