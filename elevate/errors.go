package elevate

import (
	"errors"
	"fmt"
)

var (
	// ErrUserDeclined is returned when the user refuses the elevation prompt.
	ErrUserDeclined = errors.New("elevation was declined")

	// ErrNoProcesses is returned when a launch is requested without any
	// processes to release.
	ErrNoProcesses = errors.New("no processes to release")

	// ErrInvalidRequest is returned when a release request is incomplete.
	ErrInvalidRequest = errors.New("invalid release request")
)

// StartError is returned when the elevated helper could not be started for
// a reason other than the user declining.
type StartError struct {
	Program string
	Err     error
}

// Error returns a string representation of the error.
func (e *StartError) Error() string {
	if e.Program == "" {
		return fmt.Sprintf("unable to start elevated helper: %v", e.Err)
	}
	return fmt.Sprintf("unable to start elevated helper with %s: %v", e.Program, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StartError) Unwrap() error {
	return e.Err
}
