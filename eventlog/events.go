package eventlog

import "fmt"

// Event is an event that can be logged.
type Event interface {
	ID() uint32
	IsDebug() bool
	String() string
}

// Event IDs.
const (
	SessionEventID = 100
	ResolveEventID = 200
	LaunchEventID  = 300
	StreamEventID  = 400
	ReleaseEventID = 500
)

// SessionEvent is an event originating from unlock session coordination.
type SessionEvent struct {
	SessionID string
	Msg       string
	Debug     bool
}

// ID returns the ID of the event.
func (e SessionEvent) ID() uint32 {
	return SessionEventID
}

// IsDebug returns true if the event is intended for development and
// debugging.
func (e SessionEvent) IsDebug() bool {
	return e.Debug
}

// String returns a string representation of the event.
func (e SessionEvent) String() string {
	if e.SessionID == "" {
		return fmt.Sprintf("[SESSION] %s", e.Msg)
	}
	return fmt.Sprintf("[SESSION] %s: %s", e.SessionID, e.Msg)
}

// ResolveEvent is an event originating from lock resolution.
type ResolveEvent struct {
	Msg   string
	Debug bool
}

// ID returns the ID of the event.
func (e ResolveEvent) ID() uint32 {
	return ResolveEventID
}

// IsDebug returns true if the event is intended for development and
// debugging.
func (e ResolveEvent) IsDebug() bool {
	return e.Debug
}

// String returns a string representation of the event.
func (e ResolveEvent) String() string {
	return fmt.Sprintf("[RESOLVE] %s", e.Msg)
}

// LaunchEvent is an event originating from the elevation launcher.
type LaunchEvent struct {
	StreamID string
	Msg      string
	Debug    bool
}

// ID returns the ID of the event.
func (e LaunchEvent) ID() uint32 {
	return LaunchEventID
}

// IsDebug returns true if the event is intended for development and
// debugging.
func (e LaunchEvent) IsDebug() bool {
	return e.Debug
}

// String returns a string representation of the event.
func (e LaunchEvent) String() string {
	if e.StreamID == "" {
		return fmt.Sprintf("[LAUNCH] %s", e.Msg)
	}
	return fmt.Sprintf("[LAUNCH] %s: %s", e.StreamID, e.Msg)
}

// StreamEvent is an event originating from a result stream watcher.
type StreamEvent struct {
	Path  string
	State string
	Msg   string
	Debug bool
}

// ID returns the ID of the event.
func (e StreamEvent) ID() uint32 {
	return StreamEventID
}

// IsDebug returns true if the event is intended for development and
// debugging.
func (e StreamEvent) IsDebug() bool {
	return e.Debug
}

// String returns a string representation of the event.
func (e StreamEvent) String() string {
	return fmt.Sprintf("[STREAM] %s (%s): %s", e.Path, e.State, e.Msg)
}

// ReleaseEvent is an event originating from the elevated helper while it
// releases locks held by a process.
type ReleaseEvent struct {
	PID         int
	ProcessName string
	Msg         string
	Debug       bool
}

// ID returns the ID of the event.
func (e ReleaseEvent) ID() uint32 {
	return ReleaseEventID
}

// IsDebug returns true if the event is intended for development and
// debugging.
func (e ReleaseEvent) IsDebug() bool {
	return e.Debug
}

// String returns a string representation of the event.
func (e ReleaseEvent) String() string {
	if e.PID == 0 {
		return fmt.Sprintf("[RELEASE] %s", e.Msg)
	}
	if e.ProcessName == "" {
		return fmt.Sprintf("[RELEASE] %d: %s", e.PID, e.Msg)
	}
	return fmt.Sprintf("[RELEASE] %s (%d): %s", e.ProcessName, e.PID, e.Msg)
}
