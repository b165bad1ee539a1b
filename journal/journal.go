// Package journal records the results of unlock sessions.
package journal

import (
	"sort"
	"time"
)

// Entry is the recorded result of a single unlock session.
type Entry struct {
	Session string    `json:"session"`
	Started time.Time `json:"started"`
	Ended   time.Time `json:"ended"`
	Outcome string    `json:"outcome"`
	Stream  string    `json:"stream,omitempty"`
	PIDs    []int     `json:"pids,omitempty"`
	Targets []Target  `json:"targets"`
}

// Duration returns the length of the session.
func (e Entry) Duration() time.Duration {
	return e.Ended.Sub(e.Started)
}

// Target is the final state of a target within a recorded session.
type Target struct {
	Path    string `json:"path"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Provider is a journal storage interface.
type Provider interface {
	// ProviderName returns the name of the provider.
	ProviderName() string

	// Record adds an entry to the journal.
	Record(entry Entry) error

	// Entries returns every entry in the journal, ordered by start time.
	Entries() ([]Entry, error)

	// Prune removes entries for sessions that started before cutoff and
	// returns the number removed.
	Prune(cutoff time.Time) (int, error)

	// Close releases any resources consumed by the provider.
	Close() error
}

// Sort orders entries by start time, then by session.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Started.Equal(entries[j].Started) {
			return entries[i].Started.Before(entries[j].Started)
		}
		return entries[i].Session < entries[j].Session
	})
}
