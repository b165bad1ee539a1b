//go:build windows
// +build windows

package release

import (
	"context"
	"errors"
	"time"

	"github.com/gentlemanautomaton/winproc"
	"github.com/gentlemanautomaton/winproc/processaccess"
)

// exitCode is reported by processes terminated by the helper.
const exitCode = 5877

var terminateRights = processaccess.QueryLimitedInformation | processaccess.Synchronize | processaccess.Terminate

// System terminates processes on the local host.
//
// Windows offers no general request to exit, so termination is immediate.
// The grace period bounds the wait for the process to disappear.
type System struct{}

// Lookup returns the executable name of pid.
func (System) Lookup(ctx context.Context, pid int) (string, error) {
	return lookup(pid)
}

// Terminate ends pid.
func (System) Terminate(ctx context.Context, pid int, grace time.Duration) error {
	ref, err := winproc.Open(winproc.ID(pid), terminateRights)
	if err != nil {
		if _, lookupErr := lookup(pid); errors.Is(lookupErr, ErrProcessNotFound) {
			return ErrProcessNotFound
		}
		return err
	}
	defer ref.Close()

	if err := ref.Terminate(exitCode); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, grace)
	defer cancel()
	if err := ref.Wait(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrStillRunning
		}
		return err
	}
	return nil
}
