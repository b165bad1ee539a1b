package main

import (
	"context"
	"fmt"
	"os"

	"github.com/scjalliance/unlocker/stream"
)

func watch(ctx context.Context, watcher stream.Watcher, path string) int {
	w := watcher.Watch(ctx, path, func(e stream.Event) {
		switch e.Kind() {
		case stream.ProcessOutcome:
			result := "failed"
			if e.Succeeded() {
				result = "released"
			}
			fmt.Printf("pid %d: %s: %s\n", e.Process(), result, e.Message)
		case stream.SessionCompleted:
			fmt.Printf("completed: %s\n", e.Message)
		}
	})
	<-w.Done()

	switch w.State() {
	case stream.Completed:
		return 0
	case stream.Cancelled:
		return 1
	default:
		fmt.Fprintf(os.Stderr, "Stream %s: %v\n", w.State(), w.Err())
		return 1
	}
}
