// slack-pulse: engagement statistics for a Slack workspace.
package main

import (
	"os"

	"github.com/mkurata/slack-pulse/internal/cli"
)

// Build-time variables injected by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
