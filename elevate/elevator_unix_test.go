//go:build !windows
// +build !windows

package elevate

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/scjalliance/unlocker/eventlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandMissingProgram(t *testing.T) {
	c := Command{Program: "/nonexistent/elevator"}
	err := c.Elevate(context.Background(), "helper", []string{"release"})

	var startErr *StartError
	require.ErrorAs(t, err, &startErr)
	assert.Equal(t, "/nonexistent/elevator", startErr.Program)
}

func TestCommandLogsDismissedPrompt(t *testing.T) {
	var rec eventlog.Recorder
	// sh receives the helper command line as positional parameters
	c := Command{Program: "sh", Args: []string{"-c", "exit 126"}, Logger: &rec}
	require.NoError(t, c.Elevate(context.Background(), "helper", []string{"release", "--request", "r.json"}))

	require.Eventually(t, func() bool {
		for _, e := range rec.Events() {
			if strings.Contains(e.String(), "dismissed") {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)
}

func TestElevateHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Direct{}.Elevate(ctx, "true", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
