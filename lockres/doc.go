// Package lockres determines which running processes hold open handles on a
// set of files or directories.
//
// A target is locked by a process when the process holds an open handle to
// the target itself or to anything beneath it. Paths are compared after
// normalization and Unicode case folding, so "C:\Data\" and "c:\data" name
// the same target.
//
// Handle enumeration is operating system specific. On windows the Restart
// Manager is asked about the files beneath each target. Elsewhere a Scanner
// walks the process table through an Enumerator.
package lockres
