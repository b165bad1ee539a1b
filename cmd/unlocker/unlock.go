package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/scjalliance/unlocker/elevate"
	"github.com/scjalliance/unlocker/eventlog"
	"github.com/scjalliance/unlocker/stream"
	"github.com/scjalliance/unlocker/unlock"
)

// UnlockConfig holds the settings of the unlock command.
type UnlockConfig struct {
	Dir         string
	Elevator    string
	Watcher     stream.Watcher
	JournalType string
	JournalPath string
	Verbose     bool
}

func unlockFiles(ctx context.Context, logger *log.Logger, events eventlog.Logger, conf UnlockConfig, paths []string) int {
	// Leave the elevator unset to let the launcher choose one
	var elevator elevate.Elevator
	if conf.Elevator != "" {
		var err error
		if elevator, err = elevate.Parse(conf.Elevator, events); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid elevator: %v\n", err)
			return 2
		}
	}

	store, err := openJournal(conf.JournalType, conf.JournalPath, logger, conf.Verbose)
	if err != nil {
		logger.Printf("Journal unavailable: %v", err)
	} else {
		defer store.Close()
	}

	queue := unlock.NewQueue()
	defer queue.Close()

	cfg := unlock.Config{
		Launcher: &elevate.HelperLauncher{
			Dir:      conf.Dir,
			Elevator: elevator,
			Logger:   events,
		},
		Watcher:    conf.Watcher,
		Dispatcher: queue,
		Observer: unlock.ObserverFuncs{
			Updated: func(u unlock.Update) {
				printTarget(u.Target)
			},
		},
		Journal: store,
		Logger:  events,
	}

	c := unlock.New(cfg)
	defer c.Close()

	s, err := c.Run(ctx, paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to start unlock session: %v\n", err)
		return 2
	}

	// A cancelled context ends the session, so Done always closes
	<-s.Done()
	queue.Flush()

	summary := s.Summary()
	fmt.Printf("Session %s %s in %s\n", summary.Session, summary.Outcome, summary.Ended.Sub(summary.Started).Round(time.Millisecond))

	switch summary.Outcome {
	case unlock.OutcomeCompleted, unlock.OutcomeNoLock:
		return 0
	default:
		return 1
	}
}

func printTarget(t unlock.Target) {
	if t.Message == "" {
		fmt.Printf("%s: %s\n", t.Path, t.Status)
		return
	}
	fmt.Printf("%s: %s: %s\n", t.Path, t.Status, t.Message)
}
