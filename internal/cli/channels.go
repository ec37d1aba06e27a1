package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkurata/slack-pulse/pkg/collector"
	"github.com/mkurata/slack-pulse/pkg/report"
	"github.com/mkurata/slack-pulse/pkg/stats"
)

var (
	channelsYear    int
	channelsMonth   int
	channelsTop     int
	channelsPost    bool
	channelsWorkers int
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Channel engagement ranking for one month",
	Long: `Scan every non-archived channel and rank them by engagement for a
given month: posts + reactions + active users x2.

Channels with no posts and no reactions in the month are left out.

Examples:
  # Print the June 2025 ranking
  slack-pulse channels --year 2025 --month 6

  # Post the ranking to the configured output channel
  slack-pulse channels --year 2025 --month 6 --post`,
	RunE: runChannels,
}

func init() {
	now := time.Now()
	channelsCmd.Flags().IntVar(&channelsYear, "year", now.Year(), "Target year")
	channelsCmd.Flags().IntVar(&channelsMonth, "month", int(now.Month()), "Target month (1-12)")
	channelsCmd.Flags().IntVar(&channelsTop, "top", stats.DefaultRankingSize, "Number of channels to rank")
	channelsCmd.Flags().BoolVar(&channelsPost, "post", false, "Post the ranking to the output channel")
	channelsCmd.Flags().IntVar(&channelsWorkers, "workers", 0, "Concurrent channel collectors (overrides config)")
	rootCmd.AddCommand(channelsCmd)
}

func runChannels(cmd *cobra.Command, args []string) error {
	if channelsMonth < 1 || channelsMonth > 12 {
		return fmt.Errorf("invalid month: %d", channelsMonth)
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	if channelsPost && rt.cfg.OutputChannel == "" {
		return fmt.Errorf("--post requires output_channel in the config")
	}

	loc, err := rt.cfg.Location()
	if err != nil {
		return err
	}

	workers := rt.cfg.Workers
	if channelsWorkers > 0 {
		workers = channelsWorkers
	}

	ctx, cancel := signalContext()
	defer cancel()

	month := time.Month(channelsMonth)
	fmt.Printf("Ranking channels for %04d-%02d...\n", channelsYear, channelsMonth)

	loader := collector.NewDirectoryLoader(rt.client, rt.pager, rt.log)
	channels, err := loader.Channels(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to load channels: %w", err)
	}
	fmt.Printf("Found %d channels\n", len(channels))
	if len(channels) == 0 {
		fmt.Println("No channels found. Nothing to report.")
		return nil
	}

	assembler := collector.NewAssembler(rt.client, rt.pager, rt.log, workers)
	collected, err := assembler.CollectHistory(ctx, channels)
	if err != nil {
		fmt.Printf("Collection interrupted, ranking %d channels collected so far\n", len(collected))
	}

	window := stats.MonthWindow(channelsYear, month, loc)
	ranked := stats.ChannelRanking(channelActivity(collected), window, loc, channelsTop, rt.log)

	if len(ranked) == 0 {
		fmt.Println("No channel had any activity in this period. Nothing to report.")
		return nil
	}

	fmt.Println()
	fmt.Print(renderChannelRanking(ranked))
	fmt.Println()

	if channelsPost {
		text := report.FormatChannelRanking(ranked, channelsYear, month)
		if _, err := rt.client.PostMessage(ctx, rt.cfg.OutputChannel, text); err != nil {
			return fmt.Errorf("failed to post ranking: %w", err)
		}
		fmt.Printf("Posted ranking to %s\n", rt.cfg.OutputChannel)
	}

	return nil
}
