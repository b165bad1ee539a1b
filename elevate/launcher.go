package elevate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/scjalliance/unlocker/eventlog"
)

// ReleaseCommand is the helper subcommand that releases the processes named
// in a request.
const ReleaseCommand = "release"

// A Launcher starts an elevated helper that releases the locks held by
// pids, and reports where the helper will write its results.
//
// Launch returns as soon as the helper has been started. It never waits for
// the helper to write anything.
type Launcher interface {
	Launch(ctx context.Context, targets []string, pids []int) (Stream, error)
}

// Stream identifies the result stream of a launched helper.
type Stream struct {
	ID      string // Session ID
	Path    string // Result stream location
	Request string // Request file location
}

// HelperLauncher is a Launcher that writes a request file and starts the
// helper executable through an Elevator.
type HelperLauncher struct {
	// Dir holds request files and result streams. It defaults to the
	// system temporary directory.
	Dir string

	// Executable is the helper program. It defaults to the running
	// executable.
	Executable string

	// Elevator starts the helper with elevated privileges. When nil, the
	// helper is started directly if the caller is already elevated and
	// through the platform's default elevator otherwise.
	Elevator Elevator

	Logger eventlog.Logger
}

// Launch writes a release request for pids and starts the elevated helper.
func (l *HelperLauncher) Launch(ctx context.Context, targets []string, pids []int) (Stream, error) {
	if len(pids) == 0 {
		return Stream{}, ErrNoProcesses
	}
	if err := ctx.Err(); err != nil {
		return Stream{}, err
	}

	dir := l.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Stream{}, &StartError{Err: err}
	}

	exe := l.Executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			return Stream{}, &StartError{Err: fmt.Errorf("unable to locate helper executable: %v", err)}
		}
	}

	id := uuid.New().String()
	s := Stream{
		ID:      id,
		Path:    StreamPath(dir, id),
		Request: RequestPath(dir, id),
	}

	req := Request{
		ID:      id,
		Targets: targets,
		PIDs:    pids,
		Stream:  s.Path,
		Created: time.Now().UTC(),
	}
	if err := WriteRequest(s.Request, req); err != nil {
		return Stream{}, &StartError{Err: fmt.Errorf("unable to write request: %v", err)}
	}

	elevator := l.elevator()
	l.debug(id, fmt.Sprintf("Starting %s via %s for %d processes", exe, elevator, len(pids)))

	if err := elevator.Elevate(ctx, exe, []string{ReleaseCommand, "--request", s.Request}); err != nil {
		os.Remove(s.Request)
		if errors.Is(err, ErrUserDeclined) {
			l.log(id, "The user declined elevation")
			return Stream{}, ErrUserDeclined
		}
		var startErr *StartError
		if !errors.As(err, &startErr) {
			err = &StartError{Program: elevator.String(), Err: err}
		}
		l.log(id, err.Error())
		return Stream{}, err
	}

	l.log(id, fmt.Sprintf("Helper launched, results will be written to %s", s.Path))
	return s, nil
}

func (l *HelperLauncher) elevator() Elevator {
	if l.Elevator != nil {
		return l.Elevator
	}
	if IsElevated() {
		return Direct{Logger: l.Logger}
	}
	return Default(l.Logger)
}

func (l *HelperLauncher) log(id, msg string) {
	if l.Logger == nil {
		return
	}
	l.Logger.Log(eventlog.LaunchEvent{StreamID: id, Msg: msg})
}

func (l *HelperLauncher) debug(id, msg string) {
	if l.Logger == nil {
		return
	}
	l.Logger.Log(eventlog.LaunchEvent{StreamID: id, Msg: msg, Debug: true})
}
