//go:build !windows
// +build !windows

package elevate

import "github.com/scjalliance/unlocker/eventlog"

// DefaultProgram is the elevation front end used when none is configured.
const DefaultProgram = "pkexec"

// Default returns the platform's default elevator.
func Default(logger eventlog.Logger) Elevator {
	return Command{Program: DefaultProgram, Logger: logger}
}

func native(fields []string, logger eventlog.Logger) (Elevator, bool) {
	return nil, false
}
