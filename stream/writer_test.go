package stream

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLines(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Outcome(100, true, "terminated <gracefully>"))
	require.NoError(t, w.Outcome(200, false, "access denied"))
	require.NoError(t, w.Complete(""))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"pid":100,"success":true,"message":"terminated <gracefully>"}`, lines[0])
	assert.JSONEq(t, `{"pid":200,"success":false,"message":"access denied"}`, lines[1])
	assert.JSONEq(t, `{"completed":true}`, lines[2])
	assert.Contains(t, lines[0], "<gracefully>", "markup is not escaped")
}

func TestCreateRefusesExistingStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unlock.jsonl")

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Outcome(1, true, ""))
	require.NoError(t, w.Close())

	planted := filepath.Join(t.TempDir(), "planted.jsonl")
	require.NoError(t, os.WriteFile(planted, []byte(`{"completed":true,"message":"forged"}`+"\n"), 0644))

	for _, existing := range []string{path, planted} {
		before, err := os.ReadFile(existing)
		require.NoError(t, err)

		_, err = Create(existing)
		assert.ErrorIs(t, err, fs.ErrExist)

		after, err := os.ReadFile(existing)
		require.NoError(t, err)
		assert.Equal(t, before, after, "an existing stream is left untouched")
	}
}
