package lockres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/scjalliance/unlocker/eventlog"
)

// A Resolver determines which processes hold open handles on a set of
// targets.
//
// An empty result is valid. Failure to enumerate processes is reported as
// a *ResolutionError.
type Resolver interface {
	Resolve(ctx context.Context, targets []string) (Locks, error)
}

// Handle describes a single open path held by a process.
type Handle struct {
	PID  int
	Name string
	Path string
}

// An Enumerator walks the open handles of every process on the host,
// calling fn for each one. Enumeration stops at the first error returned by
// fn.
type Enumerator interface {
	Enumerate(ctx context.Context, fn func(Handle) error) error
}

// Scanner is a Resolver that matches the handles produced by an Enumerator
// against each target.
type Scanner struct {
	Enumerator Enumerator
	Logger     eventlog.Logger
}

// NewScanner returns a Scanner that uses e to enumerate open handles.
func NewScanner(e Enumerator, logger eventlog.Logger) *Scanner {
	return &Scanner{
		Enumerator: e,
		Logger:     logger,
	}
}

// Resolve returns the set of processes holding targets open.
func (s *Scanner) Resolve(ctx context.Context, targets []string) (Locks, error) {
	set, err := newTargetSet(targets)
	if err != nil {
		return nil, err
	}

	acc := newAccumulator()
	var handles int
	err = s.Enumerator.Enumerate(ctx, func(h Handle) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		handles++
		if h.PID <= 0 || h.Path == "" {
			return nil
		}
		key := Key(h.Path)
		for _, t := range set {
			if containsKey(t.key, key) {
				acc.add(Lock{PID: h.PID, Name: h.Name, Path: h.Path, Target: t.path})
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &ResolutionError{Err: err}
	}

	locks := acc.locks()
	s.debug(fmt.Sprintf("Examined %d handles across %d targets, found %d locks", handles, len(set), len(locks)))
	return locks, nil
}

func (s *Scanner) debug(msg string) {
	if s.Logger == nil {
		return
	}
	s.Logger.Log(eventlog.ResolveEvent{Msg: msg, Debug: true})
}

type target struct {
	path string
	key  string
}

// newTargetSet normalizes targets and drops case-insensitive duplicates.
func newTargetSet(targets []string) ([]target, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	seen := make(map[string]struct{}, len(targets))
	set := make([]target, 0, len(targets))
	for _, path := range targets {
		norm, err := Normalize(path)
		if err != nil {
			return nil, fmt.Errorf("invalid target %q: %w", path, err)
		}
		key := Key(norm)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		set = append(set, target{path: norm, key: key})
	}
	return set, nil
}

type lockKey struct {
	pid    int
	target string
}

// accumulator collects at most one lock per process and target.
type accumulator struct {
	seen map[lockKey]struct{}
	list Locks
}

func newAccumulator() *accumulator {
	return &accumulator{seen: make(map[lockKey]struct{})}
}

func (a *accumulator) add(lock Lock) {
	if lock.PID <= 0 {
		return
	}
	k := lockKey{pid: lock.PID, target: Key(lock.Target)}
	if _, exists := a.seen[k]; exists {
		return
	}
	a.seen[k] = struct{}{}
	a.list = append(a.list, lock)
}

func (a *accumulator) locks() Locks {
	sort.Sort(a.list)
	return a.list
}
