package lockres

import "sort"

// Lock records a process observed holding an open handle on a target.
type Lock struct {
	PID    int    `json:"pid"`
	Name   string `json:"name,omitempty"`
	Path   string `json:"path"`   // The open path that was observed
	Target string `json:"target"` // The target that contains Path
}

// Locks is a set of lock observations, at most one per process and target.
type Locks []Lock

// PIDs returns the distinct, positive process IDs in l in ascending order.
func (l Locks) PIDs() []int {
	seen := make(map[int]struct{}, len(l))
	var pids []int
	for _, lock := range l {
		if lock.PID <= 0 {
			continue
		}
		if _, exists := seen[lock.PID]; exists {
			continue
		}
		seen[lock.PID] = struct{}{}
		pids = append(pids, lock.PID)
	}
	sort.Ints(pids)
	return pids
}

// Targets returns the targets that pid was observed locking.
func (l Locks) Targets(pid int) []string {
	var targets []string
	for _, lock := range l {
		if lock.PID == pid {
			targets = append(targets, lock.Target)
		}
	}
	return targets
}

// Locked reports whether any process was observed holding target. The
// comparison is case-insensitive.
func (l Locks) Locked(target string) bool {
	key := Key(target)
	for _, lock := range l {
		if Key(lock.Target) == key {
			return true
		}
	}
	return false
}

// Name returns the process name recorded for pid, if any.
func (l Locks) Name(pid int) string {
	for _, lock := range l {
		if lock.PID == pid && lock.Name != "" {
			return lock.Name
		}
	}
	return ""
}

// Len is the number of locks in the set.
func (l Locks) Len() int { return len(l) }

// Swap swaps the locks at indices i and j.
func (l Locks) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

// Less reports whether the lock at index i sorts before the lock at index j.
// Locks are ordered by process ID and then by target.
func (l Locks) Less(i, j int) bool {
	if l[i].PID != l[j].PID {
		return l[i].PID < l[j].PID
	}
	return l[i].Target < l[j].Target
}
