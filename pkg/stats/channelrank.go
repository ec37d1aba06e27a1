package stats

import (
	"log/slog"
	"sort"
	"time"

	"github.com/mkurata/slack-pulse/pkg/models"
	"github.com/mkurata/slack-pulse/pkg/slackapi"
)

// DefaultRankingSize is the number of channels in the ranking report.
const DefaultRankingSize = 10

// ChannelActivity pairs a channel with its collected history messages.
type ChannelActivity struct {
	Channel  models.Channel
	Messages []slackapi.Message
}

// ChannelRanking scores channels by in-window engagement:
//
//	score = posts + reactions + 2*activeUsers
//
// where posts counts user messages in the window, activeUsers counts
// distinct posting users, and reactions sums the reaction user entries over
// those messages. Channels with neither posts nor reactions in the window
// are dropped. The result is sorted by score descending (ties keep input
// order) and truncated to topN; topN <= 0 means DefaultRankingSize.
func ChannelRanking(activity []ChannelActivity, w Window, loc *time.Location, topN int, log *slog.Logger) []models.ChannelStat {
	if log == nil {
		log = slog.Default()
	}
	if topN <= 0 {
		topN = DefaultRankingSize
	}

	var ranked []models.ChannelStat
	for _, ca := range activity {
		posts := 0
		reactions := 0
		active := make(map[string]bool)

		for i := range ca.Messages {
			m := &ca.Messages[i]
			if m.User == "" {
				continue
			}
			t, err := m.ParsedTime()
			if err != nil {
				log.Warn("skipping message with bad timestamp",
					"channel", ca.Channel.Name, "ts", m.Timestamp, "error", err)
				continue
			}
			if !w.Contains(DateOf(t, loc)) {
				continue
			}

			posts++
			active[m.User] = true
			for _, r := range m.Reactions {
				reactions += len(r.Users)
			}
		}

		if posts == 0 && reactions == 0 {
			continue
		}

		ranked = append(ranked, models.ChannelStat{
			ChannelID:   ca.Channel.ID,
			ChannelName: ca.Channel.Name,
			Posts:       posts,
			Reactions:   reactions,
			ActiveUsers: len(active),
			Score:       posts + reactions + 2*len(active),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
