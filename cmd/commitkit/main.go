// Package main provides the entry point for the commitkit CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/commitkit/internal/cli"
)

// Set by goreleaser ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	ctx := context.Background()
	err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date})
	cli.CloseLogFile()
	if err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}
