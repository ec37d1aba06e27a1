package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkurata/slack-pulse/pkg/models"
)

// FormatChannelRanking renders the channel engagement ranking as a
// plain-text message suitable for chat.postMessage or the console.
func FormatChannelRanking(ranked []models.ChannelStat, year int, month time.Month) string {
	var b strings.Builder

	b.WriteString("*:fire: Channel Engagement Ranking*\n")
	fmt.Fprintf(&b, "Period: %04d-%02d\n", year, int(month))
	b.WriteString("Score: posts + reactions + active users x2\n")

	for i, s := range ranked {
		fmt.Fprintf(&b, "\n%d. #%s\n", i+1, s.ChannelName)
		fmt.Fprintf(&b, "    posts: %d   active users: %d   reactions: %d",
			s.Posts, s.ActiveUsers, s.Reactions)
	}

	if len(ranked) == 0 {
		b.WriteString("\nNo channel had any activity in this period.")
	}

	b.WriteString("\n")
	return b.String()
}

// FormatEngagementSummary renders the post and reaction leaderboards as one
// plain-text message, mirroring the layout of the posted workspace summary.
func FormatEngagementSummary(topUsers, topChannels []models.PostCount, reactions []models.ReactionStat, scope string) string {
	var b strings.Builder

	if scope != "" {
		fmt.Fprintf(&b, "*:bar_chart: Post & Reaction Ranking (%s)*\n\n", scope)
	} else {
		b.WriteString("*:bar_chart: Post & Reaction Ranking*\n\n")
	}

	fmt.Fprintf(&b, "*:bust_in_silhouette: Posts per user (top %d):*\n", len(topUsers))
	for _, row := range topUsers {
		fmt.Fprintf(&b, "- %s: %d\n", row.Name, row.Count)
	}

	fmt.Fprintf(&b, "\n*:tv: Posts per channel (top %d):*\n", len(topChannels))
	for _, row := range topChannels {
		fmt.Fprintf(&b, "- #%s: %d\n", row.Name, row.Count)
	}

	fmt.Fprintf(&b, "\n*:+1: Reactions pressed per user (top %d):*\n", len(reactions))
	for _, row := range reactions {
		fmt.Fprintf(&b, "- %s: %d\n", row.DisplayName, row.Count)
	}

	return b.String()
}
