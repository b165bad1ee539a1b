package stream

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInterval = 10 * time.Millisecond

type collector struct {
	mutex  sync.Mutex
	events []Event
}

func (c *collector) handle(e Event) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.events = append(c.events, e)
}

func (c *collector) list() []Event {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func appendString(t *testing.T, path, s string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(s)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func waitDone(t *testing.T, w *Watch) {
	t.Helper()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not finish")
	}
}

func TestWatchDeliversSplitLinesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unlock-split.jsonl")
	appendString(t, path, `{"pid":100,"succ`)

	var c collector
	w := Watcher{Interval: testInterval, Attempts: 10}.Watch(context.Background(), path, c.handle)

	// Several polls pass while the line is incomplete
	time.Sleep(5 * testInterval)
	assert.Empty(t, c.list(), "a partial line must not be delivered")
	assert.Equal(t, Tailing, w.State())

	appendString(t, path, `ess":true}`+"\n")
	time.Sleep(5 * testInterval)
	require.Len(t, c.list(), 1)

	appendString(t, path, `{"completed":true}`+"\n")
	waitDone(t, w)

	events := c.list()
	require.Len(t, events, 2)
	assert.Equal(t, 100, events[0].Process())
	assert.True(t, events[0].Succeeded())
	assert.Equal(t, SessionCompleted, events[1].Kind())
	assert.Equal(t, Completed, w.State())
	assert.NoError(t, w.Err())
}

func TestWatchSkipsMalformedAndIgnoredLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unlock-mixed.jsonl")
	appendString(t, path, "not json\n"+
		`{"message":"helper started"}`+"\n"+
		"\n"+
		`{"pid":5,"success":false,"message":"access denied","future":1}`+"\n"+
		`{"completed":true}`+"\n"+
		`{"pid":6,"success":true}`+"\n")

	var c collector
	w := Watcher{Interval: testInterval, Attempts: 10}.Watch(context.Background(), path, c.handle)
	waitDone(t, w)

	events := c.list()
	require.Len(t, events, 2)
	assert.Equal(t, 5, events[0].Process())
	assert.Equal(t, "access denied", events[0].Message)
	assert.Equal(t, SessionCompleted, events[1].Kind())
}

func TestWatchAbandonsMissingStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.jsonl")

	var c collector
	start := time.Now()
	w := Watcher{Interval: testInterval, Attempts: 3}.Watch(context.Background(), path, c.handle)
	waitDone(t, w)

	assert.Equal(t, Abandoned, w.State())
	assert.ErrorIs(t, w.Err(), ErrStreamAbandoned)
	assert.Empty(t, c.list())
	assert.GreaterOrEqual(t, time.Since(start), 3*testInterval)
}

func TestWatchWaitsForLateStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.jsonl")

	var c collector
	w := Watcher{Interval: testInterval, Attempts: 100}.Watch(context.Background(), path, c.handle)

	time.Sleep(3 * testInterval)
	assert.Equal(t, AwaitingStream, w.State())

	appendString(t, path, `{"pid":42,"success":true}`+"\n"+`{"completed":true}`+"\n")
	waitDone(t, w)

	assert.Len(t, c.list(), 2)
	assert.Equal(t, Completed, w.State())
}

func TestWatchStopsAfterCancellation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cancel.jsonl")
	appendString(t, path, `{"pid":1,"success":true}`+"\n")

	var c collector
	w := Watcher{Interval: testInterval, Attempts: 10}.Watch(context.Background(), path, c.handle)

	require.Eventually(t, func() bool { return len(c.list()) == 1 }, time.Second, testInterval)

	w.Stop()
	assert.Equal(t, Cancelled, w.State())
	assert.ErrorIs(t, w.Err(), context.Canceled)

	appendString(t, path, `{"pid":2,"success":true}`+"\n"+`{"completed":true}`+"\n")
	time.Sleep(5 * testInterval)
	assert.Len(t, c.list(), 1, "no events after cancellation")
}

func TestWatchParentContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	path := filepath.Join(t.TempDir(), "parent.jsonl")

	var c collector
	w := Watcher{Interval: testInterval, Attempts: 1000}.Watch(ctx, path, c.handle)
	cancel()

	select {
	case <-w.Done():
	case <-time.After(20 * testInterval):
		t.Fatal("watch did not stop within the grace period")
	}
	assert.Equal(t, Cancelled, w.State())
}

func TestWatchCompletesOnOutcomeWithCompletionFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unlock-combined.jsonl")
	appendString(t, path, `{"pid":100,"success":true,"completed":true}`+"\n")

	var c collector
	w := Watcher{Interval: testInterval, Attempts: 10}.Watch(context.Background(), path, c.handle)
	waitDone(t, w)

	events := c.list()
	require.Len(t, events, 1)
	assert.Equal(t, 100, events[0].Process())
	assert.True(t, events[0].Succeeded())
	assert.Equal(t, Completed, w.State())
	assert.NoError(t, w.Err())
}
