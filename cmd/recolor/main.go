// Package main is the entry point for the recolor command.
package main

import (
	"fmt"
	"os"

	"github.com/dshills/recolor/internal/cli"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := cli.Execute(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)); err != nil {
		return 1
	}
	return 0
}
