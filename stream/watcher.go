package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/scjalliance/unlocker/eventlog"
)

// Default watcher settings. Together they allow a helper 30 seconds to
// produce its result stream.
const (
	DefaultInterval = 200 * time.Millisecond
	DefaultAttempts = 150
)

const readBufferSize = 32 * 1024

// Handler receives events from a watch. It is called from the watch's
// goroutine, one event at a time.
type Handler func(Event)

// Watcher follows result streams.
//
// The zero value uses DefaultInterval and DefaultAttempts.
type Watcher struct {
	Interval time.Duration // Time between polls of the stream
	Attempts int           // Number of polls before an absent stream is abandoned
	Logger   eventlog.Logger
}

// Watch begins following the result stream at path on a background
// goroutine and returns immediately. Each newline-terminated event of kind
// ProcessOutcome or SessionCompleted is passed to handler.
//
// The watch ends when a SessionCompleted event has been delivered, when the
// stream fails to appear in time, or when ctx is cancelled.
func (w Watcher) Watch(ctx context.Context, path string, handler Handler) *Watch {
	if w.Interval <= 0 {
		w.Interval = DefaultInterval
	}
	if w.Attempts <= 0 {
		w.Attempts = DefaultAttempts
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	watch := &Watch{
		path:   path,
		logger: w.Logger,
		stop:   cancel,
		done:   done,
		state:  AwaitingStream,
	}

	go watch.run(ctx, w, handler, done)

	return watch
}

// Watch is a running or finished observation of a result stream.
type Watch struct {
	path   string
	logger eventlog.Logger
	stop   context.CancelFunc
	done   <-chan struct{}

	mutex sync.RWMutex
	state State
	err   error
}

// Path returns the path of the stream being watched.
func (w *Watch) Path() string {
	return w.path
}

// State returns the current state of the watch.
func (w *Watch) State() State {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.state
}

// Err returns the reason the watch ended. It returns nil while the watch
// is running and after a completion event. It returns ErrStreamAbandoned
// if the stream never appeared.
func (w *Watch) Err() error {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.err
}

// Done returns a channel that is closed when the watch has ended. The
// handler is never called after Done is closed.
func (w *Watch) Done() <-chan struct{} {
	return w.done
}

// Cancel causes the watch to end without waiting for it to do so.
func (w *Watch) Cancel() {
	w.stop()
}

// Stop causes the watch to end and waits for its goroutine to exit.
func (w *Watch) Stop() {
	w.stop()
	<-w.done
}

func (w *Watch) run(ctx context.Context, cfg Watcher, handler Handler, done chan<- struct{}) {
	defer close(done)
	defer w.stop()

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	wake, closeNotifier := notifier(w.path, w.debug)
	defer closeNotifier()

	// Wait for the helper to create the stream
	f, ok := w.await(ctx, cfg.Attempts, ticker.C, wake)
	if !ok {
		return
	}
	defer f.Close()

	w.setState(Tailing, nil)
	w.log("Stream opened")

	t := tail{file: f, buf: make([]byte, readBufferSize)}
	for {
		finished, err := t.drain(ctx, handler, w.debug)
		switch {
		case finished:
			w.setState(Completed, nil)
			w.log("Session completed")
			return
		case err != nil:
			w.debug(fmt.Sprintf("Read failed: %v", err))
		}

		select {
		case <-ctx.Done():
			w.cancelled(ctx)
			return
		case <-ticker.C:
		case <-wake:
		}
	}
}

// await polls for the stream until it can be opened. Only ticks count
// against the attempt budget, so notifications cannot exhaust it early.
func (w *Watch) await(ctx context.Context, attempts int, tick <-chan time.Time, wake <-chan struct{}) (*os.File, bool) {
	var elapsed int
	for {
		if ctx.Err() != nil {
			w.cancelled(ctx)
			return nil, false
		}

		f, err := openStream(w.path)
		if err == nil {
			return f, true
		}
		if !errors.Is(err, os.ErrNotExist) {
			w.debug(fmt.Sprintf("Unable to open stream: %v", err))
		}

		if elapsed >= attempts {
			w.setState(Abandoned, ErrStreamAbandoned)
			w.log(fmt.Sprintf("Stream did not appear after %d attempts", attempts))
			return nil, false
		}

		select {
		case <-ctx.Done():
			w.cancelled(ctx)
			return nil, false
		case <-tick:
			elapsed++
		case <-wake:
		}
	}
}

func (w *Watch) cancelled(ctx context.Context) {
	w.setState(Cancelled, ctx.Err())
	w.debug("Watch cancelled")
}

func (w *Watch) setState(state State, err error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.state = state
	w.err = err
}

func (w *Watch) log(msg string) {
	if w.logger == nil {
		return
	}
	w.logger.Log(eventlog.StreamEvent{
		Path:  w.path,
		State: string(w.State()),
		Msg:   msg,
	})
}

func (w *Watch) debug(msg string) {
	if w.logger == nil {
		return
	}
	w.logger.Log(eventlog.StreamEvent{
		Path:  w.path,
		State: string(w.State()),
		Msg:   msg,
		Debug: true,
	})
}

// tail reads a growing file from an explicit offset and splits it into
// lines. Data following the last newline is held until the line is
// finished.
type tail struct {
	file    *os.File
	offset  int64
	buf     []byte
	pending []byte
}

// drain reads everything currently available and delivers each complete
// line. It returns true once an event marked completed has been delivered.
func (t *tail) drain(ctx context.Context, handler Handler, debug func(string)) (bool, error) {
	for {
		n, err := t.file.ReadAt(t.buf, t.offset)
		if n > 0 {
			t.offset += int64(n)
			t.pending = append(t.pending, t.buf[:n]...)
			if t.deliver(ctx, handler, debug) {
				return true, nil
			}
		}
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, nil
		}
	}
}

func (t *tail) deliver(ctx context.Context, handler Handler, debug func(string)) bool {
	for {
		i := bytes.IndexByte(t.pending, '\n')
		if i < 0 {
			return false
		}
		line := t.pending[:i]
		t.pending = t.pending[i+1:]

		e, err := Parse(line)
		if err != nil {
			if err != ErrEmptyLine {
				debug(fmt.Sprintf("Skipped malformed line: %v", err))
			}
			continue
		}

		kind := e.Kind()
		if kind == Ignored {
			continue
		}

		// Nothing is delivered once the watch has been cancelled
		if ctx.Err() != nil {
			return false
		}
		handler(e)

		if e.Completed {
			return true
		}
	}
}
