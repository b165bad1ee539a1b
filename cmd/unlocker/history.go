package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/scjalliance/unlocker/journal"
)

func history(ctx context.Context, logger *log.Logger, journalType, path string, prune time.Duration, verbose bool) int {
	store, err := openJournal(journalType, path, logger, verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}
	defer store.Close()

	if prune > 0 {
		removed, err := store.Prune(time.Now().Add(-prune))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to prune journal: %v\n", err)
			return 2
		}
		fmt.Printf("Removed %d sessions.\n", removed)
	}

	entries, err := store.Entries()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read journal: %v\n", err)
		return 2
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return 1
		}
		printEntry(entry)
	}

	return 0
}

func printEntry(entry journal.Entry) {
	fmt.Printf("%s  %s  %s (%s)\n", entry.Started.Local().Format("2006-01-02 15:04:05"), entry.Session, entry.Outcome, entry.Duration().Round(time.Millisecond))
	for _, target := range entry.Targets {
		if target.Message == "" {
			fmt.Printf("    %s: %s\n", target.Path, target.Status)
		} else {
			fmt.Printf("    %s: %s: %s\n", target.Path, target.Status, target.Message)
		}
	}
}
