package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/scjalliance/unlocker/journal"
	"github.com/scjalliance/unlocker/provider/boltprov"
	"github.com/scjalliance/unlocker/provider/logprov"
	"github.com/scjalliance/unlocker/provider/memprov"
)

const defaultJournalType = "bolt"

func defaultJournalPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "unlocker", "journal.db")
}

func openJournal(journalType, path string, logger *log.Logger, verbose bool) (journal.Provider, error) {
	var source journal.Provider
	switch journalType {
	case "memory":
		source = memprov.New()
	case "bolt":
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("unable to create journal directory: %v", err)
		}
		p, err := boltprov.Open(path)
		if err != nil {
			return nil, fmt.Errorf("unable to open journal \"%s\": %v", path, err)
		}
		source = p
	default:
		return nil, fmt.Errorf("unknown journal type \"%s\"", journalType)
	}

	if verbose {
		return logprov.New(source, logger), nil
	}
	return source, nil
}
