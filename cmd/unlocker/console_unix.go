//go:build !windows
// +build !windows

package main

// prepareConsole is a no-op outside of windows, where processes always
// inherit the standard outputs of their parent.
func prepareConsole(attachOnly bool) error {
	return nil
}
