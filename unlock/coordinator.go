package unlock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scjalliance/unlocker/elevate"
	"github.com/scjalliance/unlocker/eventlog"
	"github.com/scjalliance/unlocker/journal"
	"github.com/scjalliance/unlocker/lockres"
	"github.com/scjalliance/unlocker/stream"
)

// Config holds the collaborators of a Coordinator. Only Resolver and
// Launcher have platform defaults. Observer, Journal and Logger are
// optional.
type Config struct {
	Resolver   lockres.Resolver
	Launcher   elevate.Launcher
	Watcher    stream.Watcher
	Dispatcher Dispatcher // Defaults to Inline
	Observer   Observer
	Journal    journal.Provider
	Logger     eventlog.Logger
}

// Coordinator runs unlock sessions, one at a time.
type Coordinator struct {
	resolver   lockres.Resolver
	launcher   elevate.Launcher
	watcher    stream.Watcher
	dispatcher Dispatcher
	observer   Observer
	journal    journal.Provider
	logger     eventlog.Logger

	runMutex sync.Mutex // Serializes Run and Close
	last     *Session   // The most recently started session

	mutex   sync.RWMutex
	current *Session // The session allowed to mutate targets
	targets TargetSet
	closed  bool
}

// New returns a new coordinator that is ready for use.
func New(cfg Config) *Coordinator {
	if cfg.Resolver == nil {
		cfg.Resolver = lockres.Default(cfg.Logger)
	}
	if cfg.Launcher == nil {
		cfg.Launcher = &elevate.HelperLauncher{Logger: cfg.Logger}
	}
	if cfg.Dispatcher == nil {
		cfg.Dispatcher = Inline{}
	}
	if cfg.Watcher.Logger == nil {
		cfg.Watcher.Logger = cfg.Logger
	}
	return &Coordinator{
		resolver:   cfg.Resolver,
		launcher:   cfg.Launcher,
		watcher:    cfg.Watcher,
		dispatcher: cfg.Dispatcher,
		observer:   cfg.Observer,
		journal:    cfg.Journal,
		logger:     cfg.Logger,
	}
}

// Run starts a new session for paths and returns without waiting for it.
// The paths are normalized and must be distinct.
//
// Any previous session is cancelled first, and Run waits for its pipeline
// to exit so that no two sessions ever report at the same time. Run must
// therefore not be called from an observer that is dispatched inline.
//
// The session stops early if ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context, paths []string) (*Session, error) {
	var set TargetSet
	for _, path := range paths {
		if err := set.Add(path); err != nil {
			return nil, err
		}
	}
	if set.Len() == 0 {
		return nil, ErrNoTargets
	}

	c.runMutex.Lock()
	defer c.runMutex.Unlock()

	c.mutex.RLock()
	closed := c.closed
	c.mutex.RUnlock()
	if closed {
		return nil, ErrClosed
	}

	if prev := c.last; prev != nil {
		c.detach(prev)
		prev.stop()
		<-prev.done
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		id:      uuid.New().String(),
		paths:   set.Paths(),
		started: time.Now(),
		stop:    cancel,
		done:    make(chan struct{}),
		view:    set.clone(),
	}

	c.mutex.Lock()
	c.current = s
	c.targets = set
	c.mutex.Unlock()
	c.last = s

	c.log(s.id, fmt.Sprintf("Starting session for %d targets", len(s.paths)))

	go c.run(ctx, s)

	return s, nil
}

// Cancel detaches the current session. Its watcher exits within one poll
// interval and its remaining updates are discarded. An elevated helper that
// is already running is left alone.
func (c *Coordinator) Cancel() {
	c.mutex.Lock()
	s := c.current
	c.current = nil
	c.mutex.Unlock()

	if s != nil {
		s.stop()
		c.log(s.id, "Session cancelled")
	}
}

// Close cancels the current session and waits for its pipeline to exit.
// The coordinator cannot be used after it has been closed.
func (c *Coordinator) Close() {
	c.runMutex.Lock()
	defer c.runMutex.Unlock()

	c.mutex.Lock()
	c.closed = true
	c.current = nil
	c.mutex.Unlock()

	if s := c.last; s != nil {
		s.stop()
		<-s.done
	}
}

// Current returns the current session, or nil if there is none.
func (c *Coordinator) Current() *Session {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.current
}

// Targets returns a snapshot of the targets of the most recent session.
func (c *Coordinator) Targets() []Target {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.targets.Snapshot()
}

// Remove stops tracking path. It returns false if path is unknown or
// belongs to a session that is still running.
func (c *Coordinator) Remove(path string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if s := c.current; s != nil && s.running() && s.includes(path) {
		return false
	}
	return c.targets.Remove(path)
}

func (c *Coordinator) detach(s *Session) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.current == s {
		c.current = nil
	}
}

func (c *Coordinator) run(ctx context.Context, s *Session) {
	defer close(s.done)
	defer s.stop()

	outcome, pids := c.pipeline(ctx, s)
	summary := s.finish(outcome, pids)

	c.log(s.id, fmt.Sprintf("Session ended: %s", outcome))

	if c.journal != nil {
		if err := c.journal.Record(summary.Entry()); err != nil {
			c.log(s.id, fmt.Sprintf("Unable to record session in %s journal: %v", c.journal.ProviderName(), err))
		}
	}

	// A session that was cancelled or replaced before it finished ends
	// quietly
	c.mutex.RLock()
	current := c.current == s
	c.mutex.RUnlock()

	if c.observer != nil && current {
		c.dispatcher.Dispatch(func() {
			c.observer.SessionEnded(summary)
		})
	}
}

func (c *Coordinator) pipeline(ctx context.Context, s *Session) (Outcome, []int) {
	c.apply(s, s.paths, InProgress, "resolving locks")

	locks, err := c.resolver.Resolve(ctx, s.paths)
	if err != nil {
		if ctx.Err() != nil {
			return OutcomeCancelled, nil
		}
		c.log(s.id, fmt.Sprintf("Lock resolution failed: %v", err))
		c.apply(s, s.paths, Failed, err.Error())
		return OutcomeFailed, nil
	}

	pids := locks.PIDs()
	if len(pids) == 0 {
		c.log(s.id, "No locks found")
		c.apply(s, s.paths, NoLock, "")
		return OutcomeNoLock, nil
	}

	var locked []string
	for _, path := range s.paths {
		if locks.Locked(path) {
			locked = append(locked, path)
			continue
		}
		c.apply(s, []string{path}, NoLock, "")
	}

	attr := newAttribution(locks, locked)
	for _, path := range locked {
		c.apply(s, []string{path}, InProgress, attr.holders(path))
	}
	c.log(s.id, fmt.Sprintf("Found %d locking processes across %d targets", len(pids), len(locked)))

	st, err := c.launcher.Launch(ctx, locked, pids)
	if err != nil {
		if ctx.Err() != nil {
			return OutcomeCancelled, pids
		}
		c.log(s.id, fmt.Sprintf("Elevation failed: %v", err))
		c.apply(s, locked, Failed, err.Error())
		if errors.Is(err, elevate.ErrUserDeclined) {
			return OutcomeDeclined, pids
		}
		return OutcomeFailed, pids
	}
	s.setStream(st)
	c.apply(s, locked, InProgress, "waiting for the elevated helper")

	watch := c.watcher.Watch(ctx, st.Path, func(e stream.Event) {
		c.handle(s, attr, e)
	})
	<-watch.Done()

	switch watch.State() {
	case stream.Completed:
		return OutcomeCompleted, pids
	case stream.Abandoned:
		c.log(s.id, "The elevated helper never produced results")
		c.apply(s, locked, Unknown, "the elevated helper never reported results")
		return OutcomeAbandoned, pids
	default:
		return OutcomeCancelled, pids
	}
}

// handle applies a single result stream event. It runs on the watch's
// goroutine.
//
// An outcome that also carries the completion flag is recorded before the
// session is completed.
func (c *Coordinator) handle(s *Session, attr *attribution, e stream.Event) {
	if e.Kind() == stream.ProcessOutcome {
		c.debug(s.id, fmt.Sprintf("Outcome for pid %d: success=%t %s", e.Process(), e.Succeeded(), e.Message))
		for _, path := range attr.record(e) {
			c.apply(s, []string{path}, InProgress, attr.message(path))
		}
	}
	if e.Completed {
		for _, path := range attr.locked {
			msg := attr.message(path)
			if msg == "" {
				msg = e.Message
			}
			if msg == "" {
				msg = "released"
			}
			c.apply(s, []string{path}, Complete, msg)
		}
	}
}

// apply records a status change in the session's own view and dispatches
// it to the coordinator's targets. The dispatched update is dropped if s is
// no longer the current session by the time it runs.
func (c *Coordinator) apply(s *Session, paths []string, status Status, message string) {
	for _, path := range paths {
		s.record(path, status, message)
	}

	c.dispatcher.Dispatch(func() {
		c.mutex.Lock()
		if c.current != s {
			c.mutex.Unlock()
			return
		}
		updates := make([]Target, 0, len(paths))
		for _, path := range paths {
			if t, ok := c.targets.Update(path, status, message); ok {
				updates = append(updates, t)
			}
		}
		c.mutex.Unlock()

		if c.observer == nil {
			return
		}
		for _, t := range updates {
			c.observer.TargetUpdated(Update{Session: s.id, Target: t})
		}
	})
}

func (c *Coordinator) log(id, msg string) {
	if c.logger == nil {
		return
	}
	c.logger.Log(eventlog.SessionEvent{SessionID: id, Msg: msg})
}

func (c *Coordinator) debug(id, msg string) {
	if c.logger == nil {
		return
	}
	c.logger.Log(eventlog.SessionEvent{SessionID: id, Msg: msg, Debug: true})
}
