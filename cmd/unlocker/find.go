package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/scjalliance/unlocker/eventlog"
	"github.com/scjalliance/unlocker/lockres"
)

func find(ctx context.Context, logger eventlog.Logger, paths []string) int {
	locks, err := lockres.Default(logger).Resolve(ctx, paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve locks: %v\n", err)
		return 2
	}

	if len(locks) == 0 {
		fmt.Println("No locks found.")
		return 0
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tNAME\tTARGET\tPATH")
	for _, lock := range locks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", lock.PID, lock.Name, lock.Target, lock.Path)
	}
	tw.Flush()

	return 0
}
