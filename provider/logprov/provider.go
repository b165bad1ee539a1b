package logprov

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/scjalliance/unlocker/journal"
)

// Provider is a journal provider that writes a line to a log for every
// change made to its source.
type Provider struct {
	source journal.Provider
	log    *log.Logger
	mutex  sync.RWMutex // Only locked for checkpointing
}

// New returns a new logging provider for source. A checkpoint describing
// the existing contents of source is written immediately.
func New(source journal.Provider, logger *log.Logger) *Provider {
	p := &Provider{
		source: source,
		log:    logger,
	}
	p.Checkpoint()
	return p
}

// Close releases any resources consumed by the provider and its source.
func (p *Provider) Close() error {
	return p.source.Close()
}

// ProviderName returns the name of the provider.
func (p *Provider) ProviderName() string {
	return fmt.Sprintf("%s (with logged changes)", p.source.ProviderName())
}

// Record adds an entry to the source and logs it.
func (p *Provider) Record(entry journal.Entry) error {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	err := p.source.Record(entry)
	if err == nil {
		p.log.Printf("REC %s %s %s", entry.Session, strings.ToUpper(entry.Outcome), describe(entry.Targets))
	}
	return err
}

// Entries returns the entries held by the source.
func (p *Provider) Entries() ([]journal.Entry, error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.source.Entries()
}

// Prune removes old entries from the source and logs how many were
// removed.
func (p *Provider) Prune(cutoff time.Time) (int, error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	removed, err := p.source.Prune(cutoff)
	if err == nil && removed > 0 {
		p.log.Printf("PRUNE %s %d", cutoff.Format(time.RFC3339), removed)
	}
	return removed, err
}

// Checkpoint writes a summary of the journal to the log.
//
// It holds an exclusive lock while the checkpoint is being written. All
// other operations on the provider block until it has finished.
func (p *Provider) Checkpoint() (err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	at := time.Now().UnixNano()

	entries, err := p.source.Entries()
	if err != nil {
		p.log.Printf("CP %v ERR %v", at, err)
		return
	}

	p.log.Printf("CP %v START", at)
	for _, entry := range entries {
		p.log.Printf("CP %v SESSION %s %s", at, entry.Session, strings.ToUpper(entry.Outcome))
	}
	p.log.Printf("CP %v END %d", at, len(entries))

	return
}

func describe(targets []journal.Target) string {
	parts := make([]string, 0, len(targets))
	for _, t := range targets {
		parts = append(parts, fmt.Sprintf("%q=%s", t.Path, t.Status))
	}
	return strings.Join(parts, " ")
}
