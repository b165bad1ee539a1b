package stream

import "errors"

// ErrStreamAbandoned is returned by Watch.Err when the result stream never
// appeared within the watcher's attempt budget. It is an inconclusive
// outcome rather than a failure.
var ErrStreamAbandoned = errors.New("result stream never appeared")

// State is the state of a watch.
type State string

// Watch states.
const (
	AwaitingStream State = "awaiting"
	Tailing        State = "tailing"
	Completed      State = "completed"
	Cancelled      State = "cancelled"
	Abandoned      State = "abandoned"
)

// Terminal returns true if s is a final state.
func (s State) Terminal() bool {
	switch s {
	case Completed, Cancelled, Abandoned:
		return true
	default:
		return false
	}
}
