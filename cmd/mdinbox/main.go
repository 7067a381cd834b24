// Package main is the entry point for the mdinbox CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaklabco/mdinbox/internal/cli"
	"github.com/yaklabco/mdinbox/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Interrupts cancel in-flight requests; compose still writes the draft.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Outcomes already printed by the command are not logged again.
		if !cli.IsSilent(err) {
			logger := logging.Default()
			logger.Error("command failed", logging.FieldError, err)
		}
		return cli.ExitCode(err)
	}

	return cli.ExitSuccess
}
