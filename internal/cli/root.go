// Package cli implements the command-line interface for slack-pulse.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mkurata/slack-pulse/internal/logger"
	"github.com/mkurata/slack-pulse/pkg/config"
	"github.com/mkurata/slack-pulse/pkg/slackapi"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Build info (set via SetVersion)
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersion sets the build version info from main.go ldflags.
func SetVersion(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "slack-pulse",
	Short: "Engagement statistics for a Slack workspace",
	Long: `slack-pulse collects messages, users, and channels from a Slack
workspace and produces time-windowed engagement statistics: per-user
activity (including thread replies), channel rankings, and reaction
leaderboards.

Authentication uses a bot token (xoxb-) read from config.yaml or the
SLACK_BOT_TOKEN environment variable.

Quick Start:
  # Write a config file interactively
  slack-pulse init

  # Per-user activity for a date window, exported to CSV
  slack-pulse activity --from 2025-05-01 --to 2025-06-30

  # Channel engagement ranking for one month
  slack-pulse channels --year 2025 --month 6

  # Post & reaction leaderboards, posted to the output channel
  slack-pulse leaderboard --post`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// runtime bundles everything a collection command needs.
type runtime struct {
	cfg    *config.Config
	client *slackapi.Client
	pager  *slackapi.Pager
	log    *slog.Logger
}

// loadRuntime loads the config and wires up the API client, the shared
// pager, and the logger.
func loadRuntime() (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logger.New(level, cfg.LogFormat == "json")

	client := slackapi.NewClient(cfg.SlackBotToken)
	pager := slackapi.NewPager(cfg.RequestInterval, slackapi.WithLogger(log))

	return &runtime{cfg: cfg, client: client, pager: pager, log: log}, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM, so a long
// collection surfaces partial results instead of dying mid-page.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupt received, stopping...")
		cancel()
	}()

	return ctx, cancel
}

// channelFilter builds the name predicate for the given prefix.
// An empty prefix keeps every channel.
func channelFilter(prefix string) func(string) bool {
	if prefix == "" {
		return nil
	}
	return func(name string) bool {
		return strings.HasPrefix(name, prefix)
	}
}
