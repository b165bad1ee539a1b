package unlock

import (
	"context"
	"sync"
	"time"

	"github.com/scjalliance/unlocker/elevate"
	"github.com/scjalliance/unlocker/journal"
)

// Outcome describes how a session ended.
type Outcome string

// Session outcomes.
const (
	OutcomeCompleted Outcome = "completed"
	OutcomeNoLock    Outcome = "no lock"
	OutcomeFailed    Outcome = "failed"
	OutcomeDeclined  Outcome = "declined"
	OutcomeAbandoned Outcome = "abandoned"
	OutcomeCancelled Outcome = "cancelled"
)

// Summary is the final report of a session.
type Summary struct {
	Session string
	Started time.Time
	Ended   time.Time
	Outcome Outcome
	Stream  string   // Result stream location, if a helper was launched
	PIDs    []int    // Processes the helper was asked to release
	Targets []Target // Final state of each target as seen by the session
}

// Entry returns s as a journal entry.
func (s Summary) Entry() journal.Entry {
	targets := make([]journal.Target, len(s.Targets))
	for i, t := range s.Targets {
		targets[i] = journal.Target{
			Path:    t.Path,
			Status:  string(t.Status),
			Message: t.Message,
		}
	}
	return journal.Entry{
		Session: s.Session,
		Started: s.Started,
		Ended:   s.Ended,
		Outcome: string(s.Outcome),
		Stream:  s.Stream,
		PIDs:    s.PIDs,
		Targets: targets,
	}
}

// Session is a single run of the resolve, elevate and watch pipeline for a
// set of targets.
type Session struct {
	id      string
	paths   []string
	started time.Time
	stop    context.CancelFunc
	done    chan struct{}

	mutex   sync.RWMutex
	stream  elevate.Stream
	view    TargetSet // The session's own record of the states it has set
	summary Summary
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Paths returns the normalized target paths of the session.
func (s *Session) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Started returns the time at which the session started.
func (s *Session) Started() time.Time {
	return s.started
}

// Stream returns the result stream of the session's helper. It is empty
// until the helper has been launched.
func (s *Session) Stream() elevate.Stream {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.stream
}

// Done returns a channel that is closed when the session's pipeline has
// finished.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session's pipeline has finished or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Summary returns the final report of the session. It is only meaningful
// after Done has been closed.
func (s *Session) Summary() Summary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.summary
}

func (s *Session) running() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *Session) includes(path string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, ok := s.view.Get(path)
	return ok
}

func (s *Session) setStream(st elevate.Stream) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stream = st
}

func (s *Session) record(path string, status Status, message string) (Target, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.view.Update(path, status, message)
}

func (s *Session) finish(outcome Outcome, pids []int) Summary {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.summary = Summary{
		Session: s.id,
		Started: s.started,
		Ended:   time.Now(),
		Outcome: outcome,
		Stream:  s.stream.Path,
		PIDs:    pids,
		Targets: s.view.Snapshot(),
	}
	return s.summary
}
