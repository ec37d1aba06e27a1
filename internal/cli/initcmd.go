package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mkurata/slack-pulse/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file interactively",
	Long: `Interactively create the slack-pulse config file.

The bot token can also be left empty here and supplied through the
SLACK_BOT_TOKEN environment variable instead.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	var (
		token         string
		prefix        string
		outputChannel string
		timezone      = config.DefaultTimezone
		csvPath       = config.DefaultCSVPath
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Slack bot token (xoxb-)").
				Description("Leave empty to use the SLACK_BOT_TOKEN environment variable").
				EchoMode(huh.EchoModePassword).
				Value(&token),
			huh.NewInput().
				Title("Channel name prefix").
				Description("Only channels starting with this prefix are collected (empty = all)").
				Value(&prefix),
			huh.NewInput().
				Title("Output channel id").
				Description("Channel summaries are posted to, e.g. C0213EHETCG (optional)").
				Value(&outputChannel),
			huh.NewInput().
				Title("Timezone").
				Description("IANA name for date bucketing, or Local").
				Value(&timezone),
			huh.NewInput().
				Title("CSV output path").
				Value(&csvPath),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup aborted: %w", err)
	}

	var b strings.Builder
	if token != "" {
		fmt.Fprintf(&b, "slack_bot_token: %q\n", token)
	}
	if prefix != "" {
		fmt.Fprintf(&b, "channel_prefix: %q\n", prefix)
	}
	if outputChannel != "" {
		fmt.Fprintf(&b, "output_channel: %q\n", outputChannel)
	}
	fmt.Fprintf(&b, "timezone: %q\n", timezone)
	fmt.Fprintf(&b, "csv_path: %q\n", csvPath)

	if err := os.WriteFile(configPath, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Wrote %s\n", configPath)
	return nil
}
