package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkurata/slack-pulse/pkg/collector"
	"github.com/mkurata/slack-pulse/pkg/report"
	"github.com/mkurata/slack-pulse/pkg/slackapi"
	"github.com/mkurata/slack-pulse/pkg/stats"
)

var (
	leaderboardPrefix  string
	leaderboardTop     int
	leaderboardPost    bool
	leaderboardFrom    string
	leaderboardTo      string
	leaderboardWorkers int
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Post and reaction leaderboards",
	Long: `Rank users by posts, channels by posts, and users by reactions
pressed, across the matched channels. Without a date window the whole
collected history counts.

Examples:
  # Print the leaderboards for the configured channel prefix
  slack-pulse leaderboard

  # Restrict to a window and post to the output channel
  slack-pulse leaderboard --from 2025-06-01 --to 2025-06-30 --post`,
	RunE: runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().StringVar(&leaderboardPrefix, "prefix", "", "Channel name prefix (overrides config)")
	leaderboardCmd.Flags().IntVar(&leaderboardTop, "top", stats.DefaultLeaderboardSize, "Rows per leaderboard")
	leaderboardCmd.Flags().BoolVar(&leaderboardPost, "post", false, "Post the summary to the output channel")
	leaderboardCmd.Flags().StringVar(&leaderboardFrom, "from", "", "Window start date (YYYY-MM-DD, optional)")
	leaderboardCmd.Flags().StringVar(&leaderboardTo, "to", "", "Window end date (YYYY-MM-DD, optional)")
	leaderboardCmd.Flags().IntVar(&leaderboardWorkers, "workers", 0, "Concurrent channel collectors (overrides config)")
	rootCmd.AddCommand(leaderboardCmd)
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	if leaderboardPost && rt.cfg.OutputChannel == "" {
		return fmt.Errorf("--post requires output_channel in the config")
	}

	loc, err := rt.cfg.Location()
	if err != nil {
		return err
	}

	window := stats.AllTime()
	if leaderboardFrom != "" || leaderboardTo != "" {
		if leaderboardFrom != "" {
			start, err := stats.ParseDate(leaderboardFrom, loc)
			if err != nil {
				return fmt.Errorf("invalid --from date: %w", err)
			}
			window.Start = start
		}
		if leaderboardTo != "" {
			end, err := stats.ParseDate(leaderboardTo, loc)
			if err != nil {
				return fmt.Errorf("invalid --to date: %w", err)
			}
			window.End = end
		}
	}

	prefix := rt.cfg.ChannelPrefix
	if leaderboardPrefix != "" {
		prefix = leaderboardPrefix
	}
	workers := rt.cfg.Workers
	if leaderboardWorkers > 0 {
		workers = leaderboardWorkers
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Print("Collecting leaderboards")
	if prefix != "" {
		fmt.Printf(" (channels: %s*)", prefix)
	}
	fmt.Println()

	loader := collector.NewDirectoryLoader(rt.client, rt.pager, rt.log)

	users, err := loader.Users(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	channels, err := loader.Channels(ctx, channelFilter(prefix))
	if err != nil {
		return fmt.Errorf("failed to load channels: %w", err)
	}
	fmt.Printf("Found %d channels\n", len(channels))
	if len(channels) == 0 {
		fmt.Println("No channels matched. Nothing to report.")
		return nil
	}

	assembler := collector.NewAssembler(rt.client, rt.pager, rt.log, workers)
	collected, err := assembler.CollectHistory(ctx, channels)
	if err != nil {
		fmt.Printf("Collection interrupted, reporting on %d channels collected so far\n", len(collected))
	}

	records, msgs := flattenHistory(collected, rt, loc)
	records = stats.Filter(records, window)

	if len(records) == 0 {
		fmt.Println("No messages found. Nothing to report.")
		return nil
	}

	topUsers := stats.TopPosters(records, users, leaderboardTop)
	topChannels := stats.TopChannels(records, leaderboardTop)
	topReactors := stats.ReactionLeaderboard(msgs, window, loc, users, leaderboardTop, rt.log)

	scope := ""
	if prefix != "" {
		scope = prefix + "*"
	}
	text := report.FormatEngagementSummary(topUsers, topChannels, topReactors, scope)

	fmt.Println()
	fmt.Println(text)

	if leaderboardPost {
		if _, err := rt.client.PostMessage(ctx, rt.cfg.OutputChannel, text); err != nil {
			return fmt.Errorf("failed to post summary: %w", err)
		}
		fmt.Printf("Posted summary to %s\n", rt.cfg.OutputChannel)
	}

	return nil
}

// flattenHistory turns collected channels into the record stream and the
// raw message stream the leaderboards aggregate over.
func flattenHistory(collected []collector.ChannelMessages, rt *runtime, loc *time.Location) ([]stats.Record, []slackapi.Message) {
	var records []stats.Record
	var msgs []slackapi.Message
	for _, cm := range collected {
		records = append(records, stats.BuildRecords(cm.Parents, cm.Channel, loc, rt.log)...)
		msgs = append(msgs, cm.Parents...)
	}
	return records, msgs
}
