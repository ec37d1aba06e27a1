// Package stats turns assembled conversations into engagement statistics:
// per-user activity, channel rankings, and reaction leaderboards. Every
// function here is pure over in-memory data.
package stats

import (
	"log/slog"
	"time"

	"github.com/mkurata/slack-pulse/pkg/models"
	"github.com/mkurata/slack-pulse/pkg/slackapi"
)

// Record is one countable message, reduced to the fields the aggregations
// group on. Messages without a user id (system and bot events) produce no
// record.
type Record struct {
	UserID      string
	ChannelID   string
	ChannelName string
	Date        time.Time // midnight in the reporting location
}

// DateOf truncates a time to its calendar date in the given location.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseDate parses a YYYY-MM-DD date in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, loc)
}

// BuildRecords converts a channel's messages to records. A message with a
// malformed timestamp is logged and skipped; the rest of the channel is
// unaffected.
func BuildRecords(msgs []slackapi.Message, ch models.Channel, loc *time.Location, log *slog.Logger) []Record {
	if log == nil {
		log = slog.Default()
	}
	records := make([]Record, 0, len(msgs))
	for i := range msgs {
		m := &msgs[i]
		if m.User == "" {
			continue
		}
		t, err := m.ParsedTime()
		if err != nil {
			log.Warn("skipping message with bad timestamp",
				"channel", ch.Name, "ts", m.Timestamp, "error", err)
			continue
		}
		records = append(records, Record{
			UserID:      m.User,
			ChannelID:   ch.ID,
			ChannelName: ch.Name,
			Date:        DateOf(t, loc),
		})
	}
	return records
}
