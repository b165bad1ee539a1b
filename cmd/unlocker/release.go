package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/scjalliance/unlocker/elevate"
	"github.com/scjalliance/unlocker/eventlog"
	"github.com/scjalliance/unlocker/lockres"
	"github.com/scjalliance/unlocker/release"
	"github.com/scjalliance/unlocker/stream"
)

// helper runs as the elevated helper. It reads a request written by the
// launcher and reports its progress to the request's result stream.
func helper(ctx context.Context, requestPath, logPath string, grace time.Duration, verify, verbose bool) int {
	var out io.Writer = os.Stderr
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to open log file: %v\n", err)
			return 2
		}
		defer f.Close()
		out = f
	}
	logger := log.New(out, "", log.LstdFlags)
	events := eventlog.Printer{Logger: logger, Debug: verbose}

	req, err := elevate.ReadRequest(requestPath)
	if err != nil {
		logger.Printf("Unable to read release request: %v", err)
		return 2
	}
	defer os.Remove(requestPath)

	w, err := stream.Create(req.Stream)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			logger.Printf("Refusing to release session %s: result stream %s already exists", req.ID, req.Stream)
		} else {
			logger.Printf("Unable to create result stream: %v", err)
		}
		return 2
	}
	defer w.Close()

	r := &release.Releaser{
		Terminator: release.System{},
		Grace:      grace,
		Logger:     events,
	}
	if verify {
		r.Verify = lockres.Default(events)
	}

	results, err := r.Release(ctx, req, w)
	if err != nil {
		logger.Printf("Release of session %s failed: %v", req.ID, err)
		return 1
	}

	for _, result := range results {
		if !result.Success {
			return 1
		}
	}
	return 0
}
