package release

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/scjalliance/unlocker/elevate"
	"github.com/scjalliance/unlocker/lockres"
	"github.com/scjalliance/unlocker/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSelf = 5000

type fakeTerminator struct {
	names      map[int]string
	failures   map[int]error
	terminated []int
}

func (f *fakeTerminator) Lookup(ctx context.Context, pid int) (string, error) {
	name, ok := f.names[pid]
	if !ok {
		return "", ErrProcessNotFound
	}
	return name, nil
}

func (f *fakeTerminator) Terminate(ctx context.Context, pid int, grace time.Duration) error {
	f.terminated = append(f.terminated, pid)
	return f.failures[pid]
}

type fakeResolver struct {
	locks lockres.Locks
	err   error
}

func (f fakeResolver) Resolve(ctx context.Context, targets []string) (lockres.Locks, error) {
	return f.locks, f.err
}

func readEvents(t *testing.T, buf *bytes.Buffer) []stream.Event {
	t.Helper()
	var events []stream.Event
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		e, err := stream.Parse([]byte(line))
		require.NoError(t, err)
		events = append(events, e)
	}
	return events
}

func request(pids ...int) elevate.Request {
	return elevate.Request{
		ID:      "session",
		Targets: []string{"/data/report.docx"},
		PIDs:    pids,
		Stream:  "/tmp/unlock-session.jsonl",
	}
}

func TestReleaseWritesOutcomesThenCompletion(t *testing.T) {
	term := &fakeTerminator{
		names:    map[int]string{100: "editor", 400: "antivirus"},
		failures: map[int]error{400: errors.New("access is denied")},
	}
	r := &Releaser{Terminator: term, Self: testSelf}

	var buf bytes.Buffer
	results, err := r.Release(context.Background(), request(100, 1, 100, testSelf, 300, 400), stream.NewWriter(&buf))
	require.NoError(t, err)
	require.Len(t, results, 5)

	events := readEvents(t, &buf)
	require.Len(t, events, 6)

	pids := make([]int, 0, 5)
	for _, e := range events[:5] {
		assert.Equal(t, stream.ProcessOutcome, e.Kind())
		pids = append(pids, e.Process())
	}
	assert.Equal(t, []int{100, 1, testSelf, 300, 400}, pids)

	assert.True(t, events[0].Succeeded())
	assert.Equal(t, "editor terminated", events[0].Message)
	assert.False(t, events[1].Succeeded())
	assert.Contains(t, events[1].Message, "protected")
	assert.False(t, events[2].Succeeded())
	assert.True(t, events[3].Succeeded(), "an exited process is released")
	assert.False(t, events[4].Succeeded())
	assert.Contains(t, events[4].Message, "access is denied")

	assert.Equal(t, stream.SessionCompleted, events[5].Kind())
	assert.Equal(t, "released 2 of 5 processes", events[5].Message)

	assert.Equal(t, []int{100, 400}, term.terminated, "protected and missing processes are never terminated")
}

func TestReleaseVerifiesHolders(t *testing.T) {
	term := &fakeTerminator{names: map[int]string{100: "editor", 200: "recycled"}}
	r := &Releaser{
		Terminator: term,
		Self:       testSelf,
		Verify: fakeResolver{locks: lockres.Locks{
			{PID: 100, Name: "editor", Path: "/data/report.docx", Target: "/data/report.docx"},
		}},
	}

	var buf bytes.Buffer
	results, err := r.Release(context.Background(), request(100, 200), stream.NewWriter(&buf))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, []int{100}, term.terminated)
	assert.True(t, results[1].Success)
	assert.Contains(t, results[1].Message, "no longer holds")
}

func TestReleaseProceedsWhenVerificationFails(t *testing.T) {
	term := &fakeTerminator{names: map[int]string{100: "editor"}}
	r := &Releaser{
		Terminator: term,
		Self:       testSelf,
		Verify:     fakeResolver{err: &lockres.ResolutionError{Err: errors.New("denied")}},
	}

	var buf bytes.Buffer
	_, err := r.Release(context.Background(), request(100), stream.NewWriter(&buf))
	require.NoError(t, err)
	assert.Equal(t, []int{100}, term.terminated)
}

func TestReleaseRejectsInvalidRequest(t *testing.T) {
	r := &Releaser{Terminator: &fakeTerminator{}}
	var buf bytes.Buffer
	_, err := r.Release(context.Background(), elevate.Request{ID: "x", Stream: "s"}, stream.NewWriter(&buf))
	assert.ErrorIs(t, err, elevate.ErrInvalidRequest)
	assert.Zero(t, buf.Len())
}

func TestProtected(t *testing.T) {
	assert.True(t, Protected(0, testSelf))
	assert.True(t, Protected(-1, testSelf))
	assert.True(t, Protected(1, testSelf))
	assert.True(t, Protected(testSelf, testSelf))
	assert.False(t, Protected(100, testSelf))
}
