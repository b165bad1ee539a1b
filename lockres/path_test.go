package lockres

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	root := t.TempDir()

	norm, err := Normalize(filepath.Join(root, "a", "b") + string(filepath.Separator))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b"), norm)

	norm, err = Normalize(filepath.Join(root, "a", ".", "c", "..", "b"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b"), norm)

	_, err = Normalize("  ")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestKeyFoldsCase(t *testing.T) {
	assert.Equal(t, Key("/Data/Report.DOCX"), Key("/data/report.docx"))
	assert.NotEqual(t, Key("/data/a"), Key("/data/b"))
}

func TestContains(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "a", "b")

	assert.True(t, Contains(target, target))
	assert.True(t, Contains(target, filepath.Join(target, "file.txt")))
	assert.True(t, Contains(target, filepath.Join(target, "deep", "er", "file.txt")))
	assert.False(t, Contains(target, filepath.Join(root, "a", "bc")), "sibling sharing a prefix")
	assert.False(t, Contains(target, filepath.Join(root, "a")), "parent of the target")
	assert.True(t, containsKey("/", "/anything/at/all"), "root contains everything")
}
