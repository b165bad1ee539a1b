//go:build !windows
// +build !windows

package release

var systemPIDs []int
