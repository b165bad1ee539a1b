package unlock

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetSetRejectsDuplicates(t *testing.T) {
	root := t.TempDir()
	var set TargetSet

	require.NoError(t, set.Add(filepath.Join(root, "Reports")))
	require.NoError(t, set.Add(filepath.Join(root, "report.docx")))

	err := set.Add(filepath.Join(root, "Reports") + string(filepath.Separator))
	assert.ErrorIs(t, err, ErrDuplicateTarget)

	err = set.Add(filepath.Join(root, "REPORTS"))
	assert.ErrorIs(t, err, ErrDuplicateTarget)

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{filepath.Join(root, "Reports"), filepath.Join(root, "report.docx")}, set.Paths())

	for _, target := range set.Snapshot() {
		assert.Equal(t, Pending, target.Status)
	}
}

func TestTargetSetUpdateAndRemove(t *testing.T) {
	root := t.TempDir()
	a, b, c := filepath.Join(root, "a"), filepath.Join(root, "b"), filepath.Join(root, "c")

	var set TargetSet
	for _, path := range []string{a, b, c} {
		require.NoError(t, set.Add(path))
	}

	updated, ok := set.Update(filepath.Join(root, "B"), InProgress, "resolving locks")
	require.True(t, ok)
	assert.Equal(t, b, updated.Path)
	assert.Equal(t, InProgress, updated.Status)

	assert.True(t, set.Remove(a))
	assert.False(t, set.Remove(a))
	assert.Equal(t, []string{b, c}, set.Paths())

	got, ok := set.Get(c)
	require.True(t, ok)
	assert.Equal(t, Pending, got.Status)

	got, ok = set.Get(b)
	require.True(t, ok)
	assert.Equal(t, "resolving locks", got.Message)

	_, ok = set.Update(a, Failed, "gone")
	assert.False(t, ok)

	assert.Error(t, set.Add(""))
}

func TestStatusOrder(t *testing.T) {
	assert.Less(t, Failed.Order(), Unknown.Order())
	assert.Less(t, Unknown.Order(), Complete.Order())
	assert.True(t, NoLock.Done())
	assert.True(t, Unknown.Done())
	assert.False(t, InProgress.Done())
	assert.Equal(t, "complete (no lock found)", string(NoLock))
}
