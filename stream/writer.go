package stream

import (
	"encoding/json"
	"io"
	"os"
	"sync"
)

type syncer interface {
	Sync() error
}

// Writer appends events to a result stream. Each event is written as a
// single line with a single write call.
//
// It is safe for concurrent use.
type Writer struct {
	mutex   sync.Mutex
	w       io.Writer
	encoder *json.Encoder
}

// NewWriter returns a Writer that appends events to w. If w can be synced
// it is synced after every event.
func NewWriter(w io.Writer) *Writer {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return &Writer{
		w:       w,
		encoder: encoder,
	}
}

// Create creates the result stream at path. It fails if anything already
// exists at path, so that a stream planted ahead of the helper is never
// written to.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return NewWriter(f), nil
}

// Write appends e to the stream.
func (w *Writer) Write(e Event) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if err := w.encoder.Encode(&e); err != nil {
		return err
	}
	if s, ok := w.w.(syncer); ok {
		return s.Sync()
	}
	return nil
}

// Outcome appends the result of releasing pid.
func (w *Writer) Outcome(pid int, success bool, message string) error {
	return w.Write(Outcome(pid, success, message))
}

// Complete appends a completion event.
func (w *Writer) Complete(message string) error {
	return w.Write(Completion(message))
}

// Close closes the underlying writer if it can be closed.
func (w *Writer) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if c, ok := w.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
