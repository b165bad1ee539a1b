//go:build !windows
// +build !windows

package release

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemTerminate(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid

	// Reap the child so that it does not linger as a zombie
	exited := make(chan struct{})
	go func() {
		cmd.Wait()
		close(exited)
	}()

	name, err := System{}.Lookup(context.Background(), pid)
	require.NoError(t, err)
	assert.Equal(t, "sleep", name)

	require.NoError(t, System{}.Terminate(context.Background(), pid, 2*time.Second))

	select {
	case <-exited:
	case <-time.After(5 * time.Second):
		t.Fatal("process was not terminated")
	}
}

func TestSystemTerminateMissing(t *testing.T) {
	cmd := exec.Command("true")
	require.NoError(t, cmd.Run())

	err := System{}.Terminate(context.Background(), cmd.Process.Pid, time.Second)
	assert.ErrorIs(t, err, ErrProcessNotFound)
}
