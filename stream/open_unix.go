//go:build !windows
// +build !windows

package stream

import "os"

func openStream(path string) (*os.File, error) {
	return os.Open(path)
}
