package lockres

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lsofSample = `p812
cFinder
fcwd
n/
ftxt
n/System/Library/CoreServices/Finder.app/Contents/MacOS/Finder
pabc
n/ignored
p901
cPreview
f4
n/Users/me/Documents/report.pdf
`

func TestParseLsof(t *testing.T) {
	var handles []Handle
	err := parseLsof(strings.NewReader(lsofSample), func(h Handle) error {
		handles = append(handles, h)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []Handle{
		{PID: 812, Name: "Finder", Path: "/"},
		{PID: 812, Name: "Finder", Path: "/System/Library/CoreServices/Finder.app/Contents/MacOS/Finder"},
		{PID: 901, Name: "Preview", Path: "/Users/me/Documents/report.pdf"},
	}, handles)
}

func TestParseLsofStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	var calls int
	err := parseLsof(strings.NewReader(lsofSample), func(h Handle) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
