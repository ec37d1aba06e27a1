package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkurata/slack-pulse/pkg/collector"
	"github.com/mkurata/slack-pulse/pkg/report"
	"github.com/mkurata/slack-pulse/pkg/stats"
)

var (
	activityFrom    string
	activityTo      string
	activityPrefix  string
	activityOut     string
	activityWorkers int
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Per-user activity report for a date window",
	Long: `Collect channel histories including thread replies and report, per
user: distinct active days, post count, and post count including replies.

The report is sorted by active days, printed as a table, and written as a
CSV file (UTF-8 with BOM) for spreadsheet import.

Examples:
  # May through June for the configured channel prefix
  slack-pulse activity --from 2025-05-01 --to 2025-06-30

  # A different cohort, custom output file
  slack-pulse activity --from 2025-05-01 --to 2025-06-30 \
    --prefix buddy25_ --out cohort25.csv`,
	RunE: runActivity,
}

func init() {
	activityCmd.Flags().StringVar(&activityFrom, "from", "", "Window start date (YYYY-MM-DD)")
	activityCmd.Flags().StringVar(&activityTo, "to", "", "Window end date (YYYY-MM-DD), inclusive")
	activityCmd.Flags().StringVar(&activityPrefix, "prefix", "", "Channel name prefix (overrides config)")
	activityCmd.Flags().StringVar(&activityOut, "out", "", "CSV output path (overrides config)")
	activityCmd.Flags().IntVar(&activityWorkers, "workers", 0, "Concurrent channel collectors (overrides config)")
	_ = activityCmd.MarkFlagRequired("from")
	_ = activityCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(activityCmd)
}

func runActivity(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	loc, err := rt.cfg.Location()
	if err != nil {
		return err
	}

	start, err := stats.ParseDate(activityFrom, loc)
	if err != nil {
		return fmt.Errorf("invalid --from date: %w", err)
	}
	end, err := stats.ParseDate(activityTo, loc)
	if err != nil {
		return fmt.Errorf("invalid --to date: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("--to %s is before --from %s", activityTo, activityFrom)
	}

	prefix := rt.cfg.ChannelPrefix
	if activityPrefix != "" {
		prefix = activityPrefix
	}
	workers := rt.cfg.Workers
	if activityWorkers > 0 {
		workers = activityWorkers
	}
	outPath := rt.cfg.CSVPath
	if activityOut != "" {
		outPath = activityOut
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("Collecting activity %s to %s", activityFrom, activityTo)
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
	collected, err := assembler.Collect(ctx, channels)
	if err != nil {
		fmt.Printf("Collection interrupted, reporting on %d channels collected so far\n", len(collected))
	}

	parents, all := buildRecordSets(collected, loc, rt.log)

	window := stats.RangeWindow(start, end)
	parents = stats.Filter(parents, window)
	all = stats.Filter(all, window)

	if len(parents) == 0 && len(all) == 0 {
		fmt.Println("No messages in the window. Nothing to report.")
		return nil
	}

	userStats := stats.UserActivity(parents, all, users)

	fmt.Println()
	fmt.Print(renderUserStats(userStats))
	fmt.Println()

	if err := report.SaveUserStatsCSV(outPath, userStats); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	fmt.Printf("Wrote %s\n", outPath)

	return nil
}

// buildRecordSets flattens collected channels into the parents-only and
// parents+replies record streams.
func buildRecordSets(collected []collector.ChannelMessages, loc *time.Location, log *slog.Logger) (parents, all []stats.Record) {
	for _, cm := range collected {
		parents = append(parents, stats.BuildRecords(cm.Parents, cm.Channel, loc, log)...)
		all = append(all, stats.BuildRecords(cm.All, cm.Channel, loc, log)...)
	}
	return parents, all
}

// channelActivity adapts collected histories for the ranking aggregation.
func channelActivity(collected []collector.ChannelMessages) []stats.ChannelActivity {
	activity := make([]stats.ChannelActivity, 0, len(collected))
	for _, cm := range collected {
		activity = append(activity, stats.ChannelActivity{Channel: cm.Channel, Messages: cm.Parents})
	}
	return activity
}
