package memprov

import (
	"errors"
	"sync"
	"time"

	"github.com/scjalliance/unlocker/journal"
)

// Provider provides a memory-based session journal.
type Provider struct {
	mutex   sync.RWMutex
	entries []journal.Entry
}

// New returns a new memory provider.
func New() *Provider {
	return &Provider{}
}

// Close releases any resources consumed by the provider.
func (p *Provider) Close() error {
	return nil
}

// ProviderName returns the name of the provider.
func (p *Provider) ProviderName() string {
	return "In-Memory"
}

// Record adds an entry to the journal. An entry for a session that has
// already been recorded replaces it.
func (p *Provider) Record(entry journal.Entry) error {
	if entry.Session == "" {
		return errors.New("unable to record journal entry without a session ID")
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	for i := range p.entries {
		if p.entries[i].Session == entry.Session {
			p.entries[i] = entry
			journal.Sort(p.entries)
			return nil
		}
	}
	p.entries = append(p.entries, entry)
	journal.Sort(p.entries)
	return nil
}

// Entries returns every entry in the journal, ordered by start time.
func (p *Provider) Entries() ([]journal.Entry, error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	entries := make([]journal.Entry, len(p.entries))
	copy(entries, p.entries)
	return entries, nil
}

// Prune removes entries for sessions that started before cutoff.
func (p *Provider) Prune(cutoff time.Time) (int, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	kept := p.entries[:0]
	for _, entry := range p.entries {
		if entry.Started.Before(cutoff) {
			continue
		}
		kept = append(kept, entry)
	}
	removed := len(p.entries) - len(kept)
	p.entries = kept
	return removed, nil
}
