package stream

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// notifier watches the directory holding path and signals the returned
// channel when path is created or written. If notifications are not
// available the channel is nil and only polling applies.
func notifier(path string, debug func(string)) (<-chan struct{}, func()) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		debug(fmt.Sprintf("File notifications unavailable: %v", err))
		return nil, func() {}
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		debug(fmt.Sprintf("File notifications unavailable: %v", err))
		return nil, func() {}
	}

	target := filepath.Clean(path)
	wake := make(chan struct{}, 1)
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				select {
				case wake <- struct{}{}:
				default:
				}
			case _, ok := <-fw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return wake, func() {
		fw.Close()
		<-exited
	}
}
