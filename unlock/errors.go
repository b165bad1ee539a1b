package unlock

import "errors"

var (
	// ErrDuplicateTarget is returned when a path is added to a target set
	// that already contains it. Paths are compared without regard to case.
	ErrDuplicateTarget = errors.New("target has already been added")

	// ErrNoTargets is returned when a session is requested without targets.
	ErrNoTargets = errors.New("no targets provided")

	// ErrClosed is returned when a session is requested from a closed
	// coordinator.
	ErrClosed = errors.New("coordinator has been closed")
)
