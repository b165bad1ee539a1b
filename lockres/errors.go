package lockres

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPath is returned when an empty path is supplied as a target.
	ErrEmptyPath = errors.New("empty path")

	// ErrNoTargets is returned when a resolution is requested without any
	// targets.
	ErrNoTargets = errors.New("no targets provided")
)

// ResolutionError is returned when the process or handle tables cannot be
// enumerated at all. It is fatal for the resolution that produced it.
type ResolutionError struct {
	Err error
}

// Error returns a string representation of the error.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unable to enumerate open handles: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}
