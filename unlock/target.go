package unlock

import (
	"fmt"

	"github.com/scjalliance/unlocker/lockres"
)

// Target is a path to be freed of locks, along with its current state.
type Target struct {
	Path    string `json:"path"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// TargetSet is an ordered set of targets keyed by normalized path.
//
// A TargetSet is not safe for concurrent use.
type TargetSet struct {
	targets []Target
	index   map[string]int
}

// Add normalizes path and appends it to the set as a pending target. It
// returns ErrDuplicateTarget if the set already holds the same path in any
// letter case.
func (s *TargetSet) Add(path string) error {
	norm, err := lockres.Normalize(path)
	if err != nil {
		return fmt.Errorf("invalid target %q: %w", path, err)
	}
	key := lockres.Key(norm)
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, exists := s.index[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTarget, norm)
	}
	s.index[key] = len(s.targets)
	s.targets = append(s.targets, Target{Path: norm, Status: Pending})
	return nil
}

// Remove removes path from the set. It returns false if the set did not
// hold it.
func (s *TargetSet) Remove(path string) bool {
	i, ok := s.find(path)
	if !ok {
		return false
	}
	s.targets = append(s.targets[:i], s.targets[i+1:]...)
	s.reindex()
	return true
}

// Get returns the target for path.
func (s *TargetSet) Get(path string) (Target, bool) {
	i, ok := s.find(path)
	if !ok {
		return Target{}, false
	}
	return s.targets[i], true
}

// Len returns the number of targets in the set.
func (s *TargetSet) Len() int {
	return len(s.targets)
}

// Paths returns the normalized paths in the set, in the order they were
// added.
func (s *TargetSet) Paths() []string {
	paths := make([]string, len(s.targets))
	for i, t := range s.targets {
		paths[i] = t.Path
	}
	return paths
}

// Snapshot returns a copy of the targets in the set.
func (s *TargetSet) Snapshot() []Target {
	out := make([]Target, len(s.targets))
	copy(out, s.targets)
	return out
}

// Update sets the status and message of path. It returns the updated
// target, or false if the set does not hold path.
func (s *TargetSet) Update(path string, status Status, message string) (Target, bool) {
	i, ok := s.find(path)
	if !ok {
		return Target{}, false
	}
	s.targets[i].Status = status
	s.targets[i].Message = message
	return s.targets[i], true
}

func (s *TargetSet) find(path string) (int, bool) {
	if s.index == nil {
		return 0, false
	}
	norm, err := lockres.Normalize(path)
	if err != nil {
		return 0, false
	}
	i, ok := s.index[lockres.Key(norm)]
	return i, ok
}

func (s *TargetSet) reindex() {
	s.index = make(map[string]int, len(s.targets))
	for i, t := range s.targets {
		s.index[lockres.Key(t.Path)] = i
	}
}

func (s *TargetSet) clone() TargetSet {
	out := TargetSet{
		targets: s.Snapshot(),
		index:   make(map[string]int, len(s.index)),
	}
	for k, v := range s.index {
		out.index[k] = v
	}
	return out
}
