package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKinds(t *testing.T) {
	e, err := Parse([]byte(`{"pid":100,"success":true,"message":"released"}`))
	require.NoError(t, err)
	assert.Equal(t, ProcessOutcome, e.Kind())
	assert.Equal(t, 100, e.Process())
	assert.True(t, e.Succeeded())
	assert.Equal(t, "released", e.Message)

	e, err = Parse([]byte(`{"completed":true,"extra":{"nested":[1,2]}}` + "\r"))
	require.NoError(t, err)
	assert.Equal(t, SessionCompleted, e.Kind())

	e, err = Parse([]byte(`{"message":"starting"}`))
	require.NoError(t, err)
	assert.Equal(t, Ignored, e.Kind())

	e, err = Parse([]byte(`{"pid":7}`))
	require.NoError(t, err)
	assert.Equal(t, ProcessOutcome, e.Kind())
	assert.False(t, e.Succeeded(), "an outcome without success is a failure")

	_, err = Parse([]byte("   "))
	assert.ErrorIs(t, err, ErrEmptyLine)

	_, err = Parse([]byte(`{"pid":`))
	assert.Error(t, err)
}

func TestOutcomeWithCompletionFlag(t *testing.T) {
	e, err := Parse([]byte(`{"pid":3,"completed":true}`))
	require.NoError(t, err)
	assert.Equal(t, ProcessOutcome, e.Kind())
	assert.True(t, e.Completed)
}
