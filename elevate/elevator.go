package elevate

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/scjalliance/unlocker/eventlog"
)

// An Elevator starts a program with elevated privileges.
//
// The started program is not bound to ctx. Once it is running it outlives
// the caller's session.
type Elevator interface {
	Elevate(ctx context.Context, program string, args []string) error
	String() string
}

// Parse returns the elevator described by s. An empty string selects the
// platform default. The word "direct" starts the helper without a prompt,
// which only makes sense when the caller is already elevated. Anything else
// is treated as a front end command line, such as "pkexec" or "sudo -n",
// that receives the helper command line as its trailing arguments.
func Parse(s string, logger eventlog.Logger) (Elevator, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Default(logger), nil
	}
	if strings.EqualFold(fields[0], "direct") {
		if len(fields) > 1 {
			return nil, fmt.Errorf("the direct elevator does not accept arguments: %q", s)
		}
		return Direct{Logger: logger}, nil
	}
	if e, ok := native(fields, logger); ok {
		return e, nil
	}
	return Command{Program: fields[0], Args: fields[1:], Logger: logger}, nil
}

// Direct starts the helper as an ordinary child process.
type Direct struct {
	Logger eventlog.Logger
}

// Elevate starts program without waiting for it to finish.
func (d Direct) Elevate(ctx context.Context, program string, args []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cmd := exec.Command(program, args...)
	if err := cmd.Start(); err != nil {
		return &StartError{Program: d.String(), Err: err}
	}
	go reap(cmd, d.Logger)
	return nil
}

// String returns the name of the elevator.
func (d Direct) String() string {
	return "direct"
}

// Command starts the helper through a front end program such as pkexec or
// sudo that prompts for authorization and runs its trailing arguments.
type Command struct {
	Program string
	Args    []string
	Logger  eventlog.Logger
}

// Elevate starts the front end without waiting for it to finish. A failed
// authorization is only visible in the front end's exit code, which is
// logged when the process is reaped.
func (c Command) Elevate(ctx context.Context, program string, args []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := make([]string, 0, len(c.Args)+len(args)+1)
	full = append(full, c.Args...)
	full = append(full, program)
	full = append(full, args...)

	cmd := exec.Command(c.Program, full...)
	if err := cmd.Start(); err != nil {
		return &StartError{Program: c.Program, Err: err}
	}
	go reap(cmd, c.Logger)
	return nil
}

// String returns the front end command line.
func (c Command) String() string {
	return strings.Join(append([]string{c.Program}, c.Args...), " ")
}

// reap waits for cmd to exit and logs how it ended. Exit codes 126 and 127
// are the pkexec conventions for a dismissed prompt and a failed
// authorization.
func reap(cmd *exec.Cmd, logger eventlog.Logger) {
	err := cmd.Wait()
	if logger == nil {
		return
	}

	var msg string
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		logger.Log(eventlog.LaunchEvent{Msg: fmt.Sprintf("Helper process %d exited", cmd.Process.Pid), Debug: true})
		return
	case errors.As(err, &exitErr):
		switch exitErr.ExitCode() {
		case 126:
			msg = "The elevation prompt was dismissed or authorization was refused"
		case 127:
			msg = "Elevation failed: authorization could not be obtained"
		default:
			msg = fmt.Sprintf("Helper exited with code %d", exitErr.ExitCode())
		}
	default:
		msg = fmt.Sprintf("Helper failed: %v", err)
	}
	logger.Log(eventlog.LaunchEvent{Msg: msg})
}
