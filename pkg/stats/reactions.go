package stats

import (
	"log/slog"
	"sort"
	"time"

	"github.com/mkurata/slack-pulse/pkg/models"
	"github.com/mkurata/slack-pulse/pkg/slackapi"
)

// DefaultLeaderboardSize is the number of rows in user leaderboards.
const DefaultLeaderboardSize = 20

// ReactionLeaderboard tallies how many reactions each user pressed across
// all in-window messages, regardless of channel. Messages without a user id
// (system and bot events) are excluded, so reactions on them never count.
// A user pressing the same
// emoji on one message counts once; pressing distinct emoji on the same
// message counts once per emoji. Rows are sorted by count descending (ties
// keep first-seen order) and truncated to topN; topN <= 0 means
// DefaultLeaderboardSize.
func ReactionLeaderboard(msgs []slackapi.Message, w Window, loc *time.Location, dir models.Directory, topN int, log *slog.Logger) []models.ReactionStat {
	if log == nil {
		log = slog.Default()
	}
	if topN <= 0 {
		topN = DefaultLeaderboardSize
	}

	counts := make(map[string]int)
	var order []string

	for i := range msgs {
		m := &msgs[i]
		if m.User == "" || len(m.Reactions) == 0 {
			continue
		}
		t, err := m.ParsedTime()
		if err != nil {
			log.Warn("skipping message with bad timestamp", "ts", m.Timestamp, "error", err)
			continue
		}
		if !w.Contains(DateOf(t, loc)) {
			continue
		}
		for _, r := range m.Reactions {
			for _, uid := range r.Users {
				if _, ok := counts[uid]; !ok {
					order = append(order, uid)
				}
				counts[uid]++
			}
		}
	}

	rows := make([]models.ReactionStat, 0, len(order))
	for _, id := range order {
		rows = append(rows, models.ReactionStat{
			UserID:      id,
			DisplayName: dir.DisplayName(id),
			Count:       counts[id],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	if len(rows) > topN {
		rows = rows[:topN]
	}
	return rows
}
