//go:build !windows && !darwin

package lockres

import (
	"context"
	"fmt"
	"os"

	"github.com/scjalliance/unlocker/eventlog"
	"github.com/shirou/gopsutil/process"
)

// ProcessEnumerator enumerates the open files and working directory of
// every process visible to the caller.
//
// Processes that cannot be inspected, usually for lack of permission, are
// skipped.
type ProcessEnumerator struct {
	Logger eventlog.Logger
}

// Enumerate calls fn for each open path held by a process other than the
// caller.
func (e ProcessEnumerator) Enumerate(ctx context.Context, fn func(Handle) error) error {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return err
	}

	self := os.Getpid()
	var skipped int
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return err
		}
		pid := int(p.Pid)
		if pid <= 0 || pid == self {
			continue
		}

		name, _ := p.NameWithContext(ctx)

		files, err := p.OpenFilesWithContext(ctx)
		if err != nil {
			skipped++
		}
		for _, f := range files {
			if err := fn(Handle{PID: pid, Name: name, Path: f.Path}); err != nil {
				return err
			}
		}

		if cwd, err := p.CwdWithContext(ctx); err == nil && cwd != "" {
			if err := fn(Handle{PID: pid, Name: name, Path: cwd}); err != nil {
				return err
			}
		}
	}

	if skipped > 0 && e.Logger != nil {
		e.Logger.Log(eventlog.ResolveEvent{
			Msg:   fmt.Sprintf("Skipped the open files of %d of %d processes that could not be inspected", skipped, len(procs)),
			Debug: true,
		})
	}
	return nil
}

// Default returns the resolver used on this platform.
func Default(logger eventlog.Logger) Resolver {
	return NewScanner(ProcessEnumerator{Logger: logger}, logger)
}
