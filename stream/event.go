package stream

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrEmptyLine is returned by Parse when a line holds no data.
var ErrEmptyLine = errors.New("empty line")

// Kind identifies the meaning of an event.
type Kind int

// Event kinds.
const (
	Ignored Kind = iota
	ProcessOutcome
	SessionCompleted
)

// String returns a string representation of k.
func (k Kind) String() string {
	switch k {
	case ProcessOutcome:
		return "outcome"
	case SessionCompleted:
		return "completed"
	default:
		return "ignored"
	}
}

// Event is a single result stream entry. All fields are optional on the
// wire and unknown fields are ignored.
type Event struct {
	PID       *int   `json:"pid,omitempty"`
	Success   *bool  `json:"success,omitempty"`
	Message   string `json:"message,omitempty"`
	Completed bool   `json:"completed,omitempty"`
}

// Outcome returns an event reporting the result of releasing pid.
func Outcome(pid int, success bool, message string) Event {
	return Event{
		PID:     &pid,
		Success: &success,
		Message: message,
	}
}

// Completion returns an event marking the end of the session.
func Completion(message string) Event {
	return Event{
		Message:   message,
		Completed: true,
	}
}

// Kind returns the kind of e. An event carrying a pid is a process outcome
// even if it is also marked completed, in which case it ends the session
// as well. Check Completed for the end of the session.
func (e Event) Kind() Kind {
	switch {
	case e.PID != nil:
		return ProcessOutcome
	case e.Completed:
		return SessionCompleted
	default:
		return Ignored
	}
}

// Process returns the process ID carried by e, or zero.
func (e Event) Process() int {
	if e.PID == nil {
		return 0
	}
	return *e.PID
}

// Succeeded returns true if e reports success. An outcome without a success
// field is treated as a failure.
func (e Event) Succeeded() bool {
	return e.Success != nil && *e.Success
}

// Parse decodes a single line of the result stream.
func Parse(line []byte) (Event, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Event{}, ErrEmptyLine
	}
	var e Event
	if err := json.Unmarshal(line, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}
