//go:build darwin

package lockres

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/scjalliance/unlocker/eventlog"
)

// LsofEnumerator enumerates open handles by running lsof, which reports
// open files and working directories for every visible process.
type LsofEnumerator struct {
	// Command is the lsof executable. It defaults to "lsof".
	Command string
}

// Enumerate calls fn for each open path reported by lsof.
func (e LsofEnumerator) Enumerate(ctx context.Context, fn func(Handle) error) error {
	command := e.Command
	if command == "" {
		command = "lsof"
	}
	out, err := exec.CommandContext(ctx, command, "-n", "-P", "-w", "-F", "pcn").Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// lsof exits 1 when some processes could not be inspected
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || len(out) == 0 {
			return err
		}
	}

	self := os.Getpid()
	return parseLsof(bytes.NewReader(out), func(h Handle) error {
		if h.PID == self {
			return nil
		}
		return fn(h)
	})
}

// Default returns the resolver used on this platform.
func Default(logger eventlog.Logger) Resolver {
	return NewScanner(LsofEnumerator{}, logger)
}
