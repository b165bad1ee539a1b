package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/scjalliance/unlocker/elevate"
	"github.com/scjalliance/unlocker/eventlog"
	"github.com/scjalliance/unlocker/lockres"
	"github.com/scjalliance/unlocker/stream"
)

// DefaultGrace is the time a process is given to exit after a polite
// termination request before it is killed.
const DefaultGrace = 3 * time.Second

// A Terminator looks up and terminates processes.
type Terminator interface {
	// Lookup returns the name of pid, or ErrProcessNotFound.
	Lookup(ctx context.Context, pid int) (string, error)

	// Terminate ends pid, waiting up to grace for it to exit on its own
	// before forcing it.
	Terminate(ctx context.Context, pid int, grace time.Duration) error
}

// Result is the outcome of releasing a single process.
type Result struct {
	PID     int
	Name    string
	Success bool
	Message string
}

// Releaser terminates the processes named in a release request.
type Releaser struct {
	Terminator Terminator
	Grace      time.Duration

	// Verify, if set, is consulted before anything is terminated. Processes
	// that no longer hold any of the request's targets are left alone,
	// which guards against process IDs that were recycled after the locks
	// were resolved.
	Verify lockres.Resolver

	// Self is the helper's own process ID. It defaults to os.Getpid.
	Self int

	Logger eventlog.Logger
}

// Release terminates each process in req, writing one outcome per process
// to w followed by a completion event.
func (r *Releaser) Release(ctx context.Context, req elevate.Request, w *stream.Writer) ([]Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	self := r.Self
	if self == 0 {
		self = os.Getpid()
	}
	grace := r.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}

	holders := r.verify(ctx, req)

	var (
		results  []Result
		released int
	)
	for _, pid := range distinct(req.PIDs) {
		result := r.releaseOne(ctx, pid, self, grace, holders)
		if result.Success {
			released++
		}
		results = append(results, result)

		if err := w.Outcome(result.PID, result.Success, result.Message); err != nil {
			return results, fmt.Errorf("unable to write outcome for pid %d: %w", pid, err)
		}
	}

	summary := fmt.Sprintf("released %d of %d processes", released, len(results))
	if err := w.Complete(summary); err != nil {
		return results, fmt.Errorf("unable to write completion: %w", err)
	}
	r.log(0, "", summary)

	return results, nil
}

func (r *Releaser) releaseOne(ctx context.Context, pid, self int, grace time.Duration, holders map[int]bool) Result {
	result := Result{PID: pid}

	if Protected(pid, self) {
		result.Message = fmt.Sprintf("refused: %v", ErrProtected)
		r.log(pid, "", result.Message)
		return result
	}

	name, err := r.Terminator.Lookup(ctx, pid)
	switch {
	case errors.Is(err, ErrProcessNotFound):
		result.Success = true
		result.Message = "process had already exited"
		r.log(pid, "", result.Message)
		return result
	case err != nil:
		r.debug(pid, "", fmt.Sprintf("Lookup failed: %v", err))
	}
	result.Name = name

	if holders != nil && !holders[pid] {
		result.Success = true
		result.Message = "process no longer holds the target"
		r.log(pid, name, result.Message)
		return result
	}

	if err := ctx.Err(); err != nil {
		result.Message = fmt.Sprintf("not terminated: %v", err)
		return result
	}

	err = r.Terminator.Terminate(ctx, pid, grace)
	switch {
	case err == nil:
		result.Success = true
		result.Message = describe(name, "terminated")
	case errors.Is(err, ErrProcessNotFound):
		result.Success = true
		result.Message = describe(name, "exited")
	default:
		result.Message = fmt.Sprintf("%s: %v", describe(name, "could not be terminated"), err)
	}
	r.log(pid, name, result.Message)

	return result
}

// verify returns the set of requested processes that still hold a target,
// or nil if no verification could take place.
func (r *Releaser) verify(ctx context.Context, req elevate.Request) map[int]bool {
	if r.Verify == nil || len(req.Targets) == 0 {
		return nil
	}
	locks, err := r.Verify.Resolve(ctx, req.Targets)
	if err != nil {
		r.log(0, "", fmt.Sprintf("Unable to verify locks, proceeding without verification: %v", err))
		return nil
	}
	holders := make(map[int]bool)
	for _, pid := range locks.PIDs() {
		holders[pid] = true
	}
	return holders
}

func (r *Releaser) log(pid int, name, msg string) {
	if r.Logger == nil {
		return
	}
	r.Logger.Log(eventlog.ReleaseEvent{PID: pid, ProcessName: name, Msg: msg})
}

func (r *Releaser) debug(pid int, name, msg string) {
	if r.Logger == nil {
		return
	}
	r.Logger.Log(eventlog.ReleaseEvent{PID: pid, ProcessName: name, Msg: msg, Debug: true})
}

func describe(name, outcome string) string {
	if name == "" {
		return "process " + outcome
	}
	return name + " " + outcome
}

// distinct returns pids without duplicates, preserving order.
func distinct(pids []int) []int {
	seen := make(map[int]struct{}, len(pids))
	out := make([]int, 0, len(pids))
	for _, pid := range pids {
		if _, exists := seen[pid]; exists {
			continue
		}
		seen[pid] = struct{}{}
		out = append(out, pid)
	}
	return out
}
