//go:build windows
// +build windows

package elevate

import (
	"context"
	"strings"

	"github.com/scjalliance/unlocker/eventlog"
	"golang.org/x/sys/windows"
)

// Default returns the platform's default elevator.
func Default(logger eventlog.Logger) Elevator {
	return ShellExecute{Logger: logger}
}

func native(fields []string, logger eventlog.Logger) (Elevator, bool) {
	if len(fields) == 1 && (strings.EqualFold(fields[0], "runas") || strings.EqualFold(fields[0], "shellexecute")) {
		return ShellExecute{Logger: logger}, true
	}
	return nil, false
}

// ShellExecute elevates by asking the shell to run the helper with the
// "runas" verb, which raises a UAC prompt.
type ShellExecute struct {
	Logger eventlog.Logger
}

// Elevate blocks until the user answers the prompt. If the user refuses,
// ErrUserDeclined is returned.
func (s ShellExecute) Elevate(ctx context.Context, program string, args []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	verb, err := windows.UTF16PtrFromString("runas")
	if err != nil {
		return &StartError{Program: s.String(), Err: err}
	}
	file, err := windows.UTF16PtrFromString(program)
	if err != nil {
		return &StartError{Program: s.String(), Err: err}
	}
	params, err := windows.UTF16PtrFromString(windows.ComposeCommandLine(args))
	if err != nil {
		return &StartError{Program: s.String(), Err: err}
	}

	err = windows.ShellExecute(0, verb, file, params, nil, windows.SW_HIDE)
	switch err {
	case nil:
		return nil
	case windows.ERROR_CANCELLED:
		return ErrUserDeclined
	default:
		return &StartError{Program: s.String(), Err: err}
	}
}

// String returns the name of the elevator.
func (s ShellExecute) String() string {
	return "runas"
}
