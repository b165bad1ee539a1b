package unlock

import "sync"

// A Dispatcher runs functions in the execution context that owns the
// targets, such as a user interface thread. Dispatch must not block until
// fn has run, except when it runs fn itself.
type Dispatcher interface {
	Dispatch(fn func())
}

// Inline is a Dispatcher that runs each function immediately on the
// calling goroutine.
type Inline struct{}

// Dispatch runs fn.
func (Inline) Dispatch(fn func()) {
	fn()
}

// Queue is a Dispatcher that runs functions one at a time, in the order
// they were dispatched, on a single goroutine of its own.
type Queue struct {
	mutex   sync.Mutex
	pending []func()
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
}

// NewQueue returns a new queue that is ready for use. Close must be called
// when it is no longer needed.
func NewQueue() *Queue {
	q := &Queue{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go q.run()
	return q
}

// Dispatch adds fn to the queue. Functions dispatched after the queue has
// been closed are discarded.
func (q *Queue) Dispatch(fn func()) {
	q.mutex.Lock()
	if q.closed {
		q.mutex.Unlock()
		return
	}
	q.pending = append(q.pending, fn)
	q.mutex.Unlock()

	q.signal()
}

// Flush waits until every function dispatched before the call has run. It
// must not be called from a dispatched function.
func (q *Queue) Flush() {
	done := make(chan struct{})
	q.Dispatch(func() { close(done) })
	select {
	case <-done:
	case <-q.stopped:
	}
}

// Close runs any functions still in the queue and then stops the queue's
// goroutine. It must not be called from a dispatched function.
func (q *Queue) Close() {
	q.mutex.Lock()
	q.closed = true
	q.mutex.Unlock()

	q.signal()
	<-q.stopped
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) run() {
	defer close(q.stopped)
	for {
		q.mutex.Lock()
		batch := q.pending
		q.pending = nil
		closed := q.closed
		q.mutex.Unlock()

		for _, fn := range batch {
			fn()
		}

		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-q.wake
	}
}
