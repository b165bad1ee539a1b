package logprov

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/scjalliance/unlocker/journal"
	"github.com/scjalliance/unlocker/provider/memprov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggedChanges(t *testing.T) {
	var buf bytes.Buffer
	p := New(memprov.New(), log.New(&buf, "", 0))
	assert.Contains(t, buf.String(), "END 0")
	assert.Equal(t, "In-Memory (with logged changes)", p.ProviderName())

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, p.Record(journal.Entry{
		Session: "abc",
		Started: started,
		Outcome: "completed",
		Targets: []journal.Target{{Path: "/data/a", Status: "complete"}},
	}))
	assert.Contains(t, buf.String(), `REC abc COMPLETED "/data/a"=complete`)

	removed, err := p.Prune(started.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Contains(t, buf.String(), "PRUNE")
}
