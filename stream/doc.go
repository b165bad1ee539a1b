// Package stream implements the append-only result stream through which an
// elevated helper reports progress to an unprivileged observer.
//
// The stream is a UTF-8 text file holding one JSON object per line. The
// helper appends events with a Writer. The observer follows the file with
// a Watcher, which waits for the file to appear, then delivers each
// complete line exactly once until a completion event arrives or the watch
// is cancelled.
package stream
