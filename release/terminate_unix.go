//go:build !windows
// +build !windows

package release

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/process"
)

const exitPollInterval = 50 * time.Millisecond

// System terminates processes on the local host. A process is first asked
// to exit with SIGTERM and is killed if it is still running once the grace
// period has elapsed.
type System struct{}

// Lookup returns the executable name of pid.
func (System) Lookup(ctx context.Context, pid int) (string, error) {
	return lookup(pid)
}

// Terminate ends pid.
func (System) Terminate(ctx context.Context, pid int, grace time.Duration) error {
	p, err := find(ctx, pid)
	if err != nil {
		return err
	}

	if err := p.TerminateWithContext(ctx); err != nil {
		if !exists(ctx, pid) {
			return nil
		}
		return err
	}
	if waitExit(ctx, pid, grace) {
		return nil
	}

	if err := p.KillWithContext(ctx); err != nil {
		if !exists(ctx, pid) {
			return nil
		}
		return err
	}
	if waitExit(ctx, pid, grace) {
		return nil
	}

	return ErrStillRunning
}

func find(ctx context.Context, pid int) (*process.Process, error) {
	if !exists(ctx, pid) {
		return nil, ErrProcessNotFound
	}
	p, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		if !exists(ctx, pid) {
			return nil, ErrProcessNotFound
		}
		return nil, err
	}
	return p, nil
}

func exists(ctx context.Context, pid int) bool {
	ok, err := process.PidExistsWithContext(ctx, int32(pid))
	return err == nil && ok
}

// waitExit waits up to timeout for pid to disappear.
func waitExit(ctx context.Context, pid int, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(exitPollInterval)
	defer ticker.Stop()

	for {
		if !exists(ctx, pid) {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return !exists(ctx, pid)
		case <-ticker.C:
		}
	}
}
