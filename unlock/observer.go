package unlock

// Update describes a change to a single target.
type Update struct {
	Session string
	Target  Target
}

// An Observer is notified of target changes and session results. Its
// methods are called through the coordinator's Dispatcher.
//
// SessionEnded is not called for a session that was cancelled or replaced
// before it finished.
type Observer interface {
	TargetUpdated(Update)
	SessionEnded(Summary)
}

// ObserverFuncs adapts a pair of functions to the Observer interface. Nil
// functions are skipped.
type ObserverFuncs struct {
	Updated func(Update)
	Ended   func(Summary)
}

// TargetUpdated calls o.Updated.
func (o ObserverFuncs) TargetUpdated(u Update) {
	if o.Updated != nil {
		o.Updated(u)
	}
}

// SessionEnded calls o.Ended.
func (o ObserverFuncs) SessionEnded(s Summary) {
	if o.Ended != nil {
		o.Ended(s)
	}
}
