// Package release implements the elevated side of an unlock session. It
// terminates the processes named in a release request and reports each
// outcome to the session's result stream.
package release
