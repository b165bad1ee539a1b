package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gentlemanautomaton/signaler"
	"github.com/scjalliance/unlocker/elevate"
	"github.com/scjalliance/unlocker/eventlog"
	"github.com/scjalliance/unlocker/stream"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Version is the version of the unlocker, set at build time.
var Version = "dev"

func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), "Releases file locks held by other processes.")
	app.Version(Version)
	app.Interspersed(false)

	var (
		interval    = app.Flag("interval", "result stream poll interval").Envar("UNLOCKER_INTERVAL").Default(stream.DefaultInterval.String()).Duration()
		attempts    = app.Flag("attempts", "number of polls before an absent result stream is abandoned").Envar("UNLOCKER_ATTEMPTS").Default("150").Int()
		dir         = app.Flag("dir", "directory for release requests and result streams").Envar("UNLOCKER_DIR").Default(os.TempDir()).String()
		elevator    = app.Flag("elevator", "elevation front-end used to start the helper").Envar("UNLOCKER_ELEVATOR").String()
		journalType = app.Flag("journal", "session journal storage type").Envar("UNLOCKER_JOURNAL").Default(defaultJournalType).Enum("bolt", "memory")
		journalPath = app.Flag("journal-path", "bolt journal file path").Envar("UNLOCKER_JOURNAL_PATH").Default(defaultJournalPath()).String()
		verbose     = app.Flag("verbose", "log debugging events").Short('v').Bool()
	)

	var (
		findCmd   = app.Command("find", "Lists the processes holding locks on files or directories.")
		findPaths = findCmd.Arg("path", "file or directory").Required().Strings()
	)

	var (
		unlockCmd   = app.Command("unlock", "Releases the locks held on files or directories.")
		unlockPaths = unlockCmd.Arg("path", "file or directory").Required().Strings()
	)

	var (
		releaseCmd     = app.Command(elevate.ReleaseCommand, "Terminates the processes named in a release request.").Hidden()
		releaseRequest = releaseCmd.Flag("request", "release request file").Required().String()
		releaseLog     = releaseCmd.Flag("log", "log file path").String()
		releaseGrace   = releaseCmd.Flag("grace", "time a process is given to exit before it is killed").Default("3s").Duration()
		releaseTrust   = releaseCmd.Flag("no-verify", "skip re-resolving locks before terminating").Bool()
	)

	var (
		watchCmd  = app.Command("watch", "Follows a result stream and prints its events.")
		watchPath = watchCmd.Arg("stream", "result stream file").Required().String()
	)

	var (
		historyCmd   = app.Command("history", "Lists previous unlock sessions.")
		historyPrune = historyCmd.Flag("prune", "remove sessions older than this").Duration()
	)

	command, err := app.Parse(os.Args[1:])
	if err != nil {
		// The elevated helper has no console of its own
		if len(os.Args) > 1 && strings.EqualFold(os.Args[1], elevate.ReleaseCommand) {
			os.Exit(2)
		}
		prepareConsole(false)
		app.Fatalf("%s, try --help", err)
	}

	if command != releaseCmd.FullCommand() {
		prepareConsole(true)
	}

	// Prepare a logger that prints to stderr
	logger := log.New(os.Stderr, "", log.LstdFlags)
	events := eventlog.Printer{Logger: logger, Debug: *verbose}

	// Shutdown when we receive a termination signal
	shutdown := signaler.New().Capture(os.Interrupt, syscall.SIGTERM)

	// Ensure that we cleanup even if we panic
	defer shutdown.Trigger()

	// Announce termination
	announcement := shutdown.Then(func() { logger.Println("Received termination signal") })

	// Cancel a context after the announcement
	ctx := announcement.Context()

	watcher := stream.Watcher{
		Interval: *interval,
		Attempts: *attempts,
		Logger:   events,
	}

	var code int
	switch command {
	case findCmd.FullCommand():
		code = find(ctx, events, *findPaths)
	case unlockCmd.FullCommand():
		conf := UnlockConfig{
			Dir:         *dir,
			Elevator:    *elevator,
			Watcher:     watcher,
			JournalType: *journalType,
			JournalPath: *journalPath,
			Verbose:     *verbose,
		}
		code = unlockFiles(ctx, logger, events, conf, *unlockPaths)
	case releaseCmd.FullCommand():
		code = helper(ctx, *releaseRequest, *releaseLog, *releaseGrace, !*releaseTrust, *verbose)
	case watchCmd.FullCommand():
		code = watch(ctx, watcher, *watchPath)
	case historyCmd.FullCommand():
		code = history(ctx, logger, *journalType, *journalPath, *historyPrune, *verbose)
	}

	if code != 0 {
		shutdown.Trigger()
		os.Exit(code)
	}
}
