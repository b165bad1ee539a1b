package memprov

import (
	"testing"
	"time"

	"github.com/scjalliance/unlocker/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEntriesInStartOrder(t *testing.T) {
	p := New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, p.Record(journal.Entry{Session: "b", Started: base.Add(time.Minute), Outcome: "completed"}))
	require.NoError(t, p.Record(journal.Entry{Session: "a", Started: base, Outcome: "failed"}))
	require.NoError(t, p.Record(journal.Entry{Session: "b", Started: base.Add(time.Minute), Outcome: "abandoned"}))

	entries, err := p.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Session)
	assert.Equal(t, "abandoned", entries[1].Outcome, "a repeated session replaces its entry")

	removed, err := p.Prune(base.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	entries, err = p.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].Session)
}
