package unlock

// Status indicates the condition of a target.
type Status string

const (
	// Pending indicates that a target has been added but no session has
	// acted on it yet.
	Pending Status = "pending"

	// InProgress indicates that a session is working to release the target.
	InProgress Status = "in progress"

	// Complete indicates that the elevated helper finished its work.
	Complete Status = "complete"

	// NoLock indicates that no process held the target, so nothing needed
	// to be released.
	NoLock Status = "complete (no lock found)"

	// Failed indicates that locks could not be resolved or that elevation
	// was not obtained.
	Failed Status = "failed"

	// Unknown indicates that the elevated helper never reported back. The
	// locks may or may not have been released.
	Unknown Status = "unknown (abandoned)"
)

// Done returns true if s is a final status.
func (s Status) Done() bool {
	switch s {
	case Complete, NoLock, Failed, Unknown:
		return true
	default:
		return false
	}
}

// Order returns an ordinal value reflecting the status' sort order, with
// statuses needing attention first. The order is:
//
//	0: Failed
//	1: Unknown
//	2: InProgress
//	3: Pending
//	4: Complete
//	5: NoLock
//	6: (any invalid or unrecognized status)
func (s Status) Order() int {
	switch s {
	case Failed:
		return 0
	case Unknown:
		return 1
	case InProgress:
		return 2
	case Pending:
		return 3
	case Complete:
		return 4
	case NoLock:
		return 5
	default:
		return 6
	}
}
