package boltprov

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/scjalliance/unlocker/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEntriesInStartOrder(t *testing.T) {
	p, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer p.Close()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := journal.Entry{Session: "b", Started: base.Add(time.Minute), Ended: base.Add(2 * time.Minute), Outcome: "completed",
		PIDs: []int{100}, Targets: []journal.Target{{Path: "/data/a", Status: "complete", Message: "pid 100: released"}}}
	earlier := journal.Entry{Session: "a", Started: base, Ended: base.Add(time.Second), Outcome: "no lock",
		Targets: []journal.Target{{Path: "/data/b", Status: "complete (no lock found)"}}}

	require.NoError(t, p.Record(later))
	require.NoError(t, p.Record(earlier))

	entries, err := p.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Session)
	assert.Equal(t, "b", entries[1].Session)
	assert.Equal(t, []int{100}, entries[1].PIDs)
	assert.Equal(t, "pid 100: released", entries[1].Targets[0].Message)
	assert.True(t, entries[1].Started.Equal(later.Started))

	removed, err := p.Prune(base.Add(30 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	entries, err = p.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].Session)
}

func TestEmptyJournal(t *testing.T) {
	p, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer p.Close()

	entries, err := p.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)

	removed, err := p.Prune(time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)

	assert.Error(t, p.Record(journal.Entry{}))
}
