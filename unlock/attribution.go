package unlock

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scjalliance/unlocker/lockres"
	"github.com/scjalliance/unlocker/stream"
)

// attribution tracks which processes were found locking each target and
// the latest outcome reported for each process.
//
// Outcomes for processes that were never attributed to a target apply to
// every locked target.
type attribution struct {
	locked   []string         // Locked target paths in session order
	owners   map[string][]int // Target key to attributed pids
	known    map[int]bool     // Pids attributed to at least one target
	names    map[int]string
	outcomes map[int]stream.Event
}

func newAttribution(locks lockres.Locks, locked []string) *attribution {
	a := &attribution{
		locked:   locked,
		owners:   make(map[string][]int, len(locked)),
		known:    make(map[int]bool),
		names:    make(map[int]string),
		outcomes: make(map[int]stream.Event),
	}
	for _, pid := range locks.PIDs() {
		a.names[pid] = locks.Name(pid)
		for _, target := range locks.Targets(pid) {
			key := lockres.Key(target)
			a.owners[key] = append(a.owners[key], pid)
			a.known[pid] = true
		}
	}
	return a
}

// record stores e as the latest outcome for its process and returns the
// targets whose messages are affected.
func (a *attribution) record(e stream.Event) []string {
	pid := e.Process()
	a.outcomes[pid] = e
	if !a.known[pid] {
		return a.locked
	}
	var affected []string
	for _, path := range a.locked {
		for _, owner := range a.owners[lockres.Key(path)] {
			if owner == pid {
				affected = append(affected, path)
				break
			}
		}
	}
	return affected
}

// holders describes the processes found locking path.
func (a *attribution) holders(path string) string {
	pids := a.owners[lockres.Key(path)]
	parts := make([]string, 0, len(pids))
	for _, pid := range pids {
		parts = append(parts, a.label(pid))
	}
	return "locked by " + strings.Join(parts, ", ")
}

// message summarizes the outcomes reported for the processes that affect
// path, ordered by pid. It is empty if nothing has been reported.
func (a *attribution) message(path string) string {
	var pids []int
	for _, pid := range a.owners[lockres.Key(path)] {
		if _, ok := a.outcomes[pid]; ok {
			pids = append(pids, pid)
		}
	}
	for pid := range a.outcomes {
		if !a.known[pid] {
			pids = append(pids, pid)
		}
	}
	sort.Ints(pids)

	parts := make([]string, 0, len(pids))
	for _, pid := range pids {
		parts = append(parts, a.describe(pid, a.outcomes[pid]))
	}
	return strings.Join(parts, "; ")
}

func (a *attribution) describe(pid int, e stream.Event) string {
	state := "not released"
	if e.Succeeded() {
		state = "released"
	}
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", a.label(pid), state)
	}
	return fmt.Sprintf("%s: %s (%s)", a.label(pid), state, e.Message)
}

func (a *attribution) label(pid int) string {
	if name := a.names[pid]; name != "" {
		return fmt.Sprintf("pid %d (%s)", pid, name)
	}
	return fmt.Sprintf("pid %d", pid)
}
