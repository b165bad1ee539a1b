//go:build !windows
// +build !windows

package elevate

import "os"

// IsElevated returns true if the current process runs as root.
func IsElevated() bool {
	return os.Geteuid() == 0
}
