package lockres

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	for _, name := range []string{"a.txt", "b.txt", filepath.Join("sub", "c.txt")} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644))
	}

	files, truncated, err := expand(context.Background(), root, 0)
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "b.txt"),
		filepath.Join(root, "sub", "c.txt"),
	}, files)

	files, truncated, err = expand(context.Background(), root, 2)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.True(t, truncated, "a walk cut short by the limit is reported")

	files, truncated, err = expand(context.Background(), root, 3)
	require.NoError(t, err)
	assert.Len(t, files, 3)
	assert.False(t, truncated, "reaching the limit exactly is not a truncation")

	single := filepath.Join(root, "a.txt")
	files, truncated, err = expand(context.Background(), single, 0)
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, []string{single}, files)

	_, _, err = expand(context.Background(), filepath.Join(root, "missing"), 0)
	assert.Error(t, err)
}
