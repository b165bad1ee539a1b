package release

import "errors"

var (
	// ErrProcessNotFound is returned when a process has already exited.
	ErrProcessNotFound = errors.New("process not found")

	// ErrProtected is returned when a process must never be terminated.
	ErrProtected = errors.New("process is protected")

	// ErrStillRunning is returned when a process survives termination.
	ErrStillRunning = errors.New("process is still running")
)
