package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkurata/slack-pulse/pkg/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("243"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// renderUserStats prints the user activity report as a console table.
func renderUserStats(stats []models.UserStat) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("User Activity"))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-24s %11s %11s %14s", "NAME", "ACTIVE DAYS", "POSTS", "WITH REPLIES")))
	b.WriteString("\n")

	for _, s := range stats {
		name := s.DisplayName
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		fmt.Fprintf(&b, "  %-24s %11d %11d %14d\n", name, s.ActiveDays, s.TotalPosts, s.PostsWithReplies)
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("\n  %d users", len(stats))))
	b.WriteString("\n")
	return b.String()
}

// renderChannelRanking prints the channel ranking as a console table.
func renderChannelRanking(ranked []models.ChannelStat) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Channel Engagement Ranking"))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %4s %-30s %7s %7s %7s %7s", "RANK", "CHANNEL", "POSTS", "USERS", "REACTS", "SCORE")))
	b.WriteString("\n")

	for i, s := range ranked {
		name := "#" + s.ChannelName
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		fmt.Fprintf(&b, "  %4d %-30s %7d %7d %7d %7d\n", i+1, name, s.Posts, s.ActiveUsers, s.Reactions, s.Score)
	}

	return b.String()
}
