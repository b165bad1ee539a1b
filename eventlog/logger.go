// Package eventlog defines the typed log events emitted by the unlocker
// components and the loggers that record them.
package eventlog

import (
	"log"
	"sync"
)

// A Logger is capable of logging unlocker events.
type Logger interface {
	Log(Event)
}

// Printer is a Logger that writes events to a standard library logger.
// Debug events are dropped unless Debug is true.
type Printer struct {
	Logger *log.Logger
	Debug  bool
}

// Log writes e to the underlying logger.
func (p Printer) Log(e Event) {
	if p.Logger == nil {
		return
	}
	if e.IsDebug() && !p.Debug {
		return
	}
	p.Logger.Print(e.String())
}

// Recorder is a Logger that keeps every event it receives in memory.
//
// Its zero value is ready for use.
type Recorder struct {
	mutex  sync.Mutex
	events []Event
}

// Log records e.
func (r *Recorder) Log(e Event) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
