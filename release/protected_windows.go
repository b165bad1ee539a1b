//go:build windows
// +build windows

package release

// The System process always runs as pid 4.
var systemPIDs = []int{4}
