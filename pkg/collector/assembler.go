package collector

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mkurata/slack-pulse/pkg/models"
	"github.com/mkurata/slack-pulse/pkg/slackapi"
)

// ChannelMessages holds one channel's assembled conversation sets.
// Parents is the raw channel history in page order. All is the history
// interleaved with each thread root's replies, grouped after their root.
type ChannelMessages struct {
	Channel models.Channel
	Parents []slackapi.Message
	All     []slackapi.Message
}

// Assembler collects channel histories and thread replies.
type Assembler struct {
	api     API
	pager   *slackapi.Pager
	log     *slog.Logger
	workers int
}

// NewAssembler creates an assembler. Workers bounds the channel fan-out;
// values below one collect sequentially. All workers pace against the
// shared pager, so the aggregate request rate stays within one budget.
func NewAssembler(api API, pager *slackapi.Pager, log *slog.Logger, workers int) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &Assembler{api: api, pager: pager, log: log, workers: workers}
}

// Collect assembles every channel's conversation sets. A failed channel is
// logged and skipped; the remaining channels are still returned. Only
// context cancellation aborts the whole collection, and even then the
// channels finished so far are returned alongside the error.
func (a *Assembler) Collect(ctx context.Context, channels []models.Channel) ([]ChannelMessages, error) {
	return a.collect(ctx, channels, true)
}

// CollectHistory is Collect without the per-thread reply fetches. The All
// set of each result equals its Parents set. Reports that only need raw
// history (channel ranking, reaction tallies) use this to halve the API
// traffic.
func (a *Assembler) CollectHistory(ctx context.Context, channels []models.Channel) ([]ChannelMessages, error) {
	return a.collect(ctx, channels, false)
}

func (a *Assembler) collect(ctx context.Context, channels []models.Channel, withReplies bool) ([]ChannelMessages, error) {
	results := make([]ChannelMessages, len(channels))
	collected := make([]bool, len(channels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, ch := range channels {
		i, ch := i, ch
		g.Go(func() error {
			cm, err := a.collectChannel(gctx, ch, withReplies)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				a.log.Warn("skipping channel after history failure",
					"channel", ch.Name, "channel_id", ch.ID, "error", err)
				return nil
			}
			results[i] = cm
			collected[i] = true
			return nil
		})
	}

	err := g.Wait()

	out := make([]ChannelMessages, 0, len(channels))
	for i := range results {
		if collected[i] {
			out = append(out, results[i])
		}
	}
	return out, err
}

// collectChannel pages through one channel's history and pulls replies for
// every thread root it finds.
func (a *Assembler) collectChannel(ctx context.Context, ch models.Channel, withReplies bool) (ChannelMessages, error) {
	parents, err := slackapi.CollectPages(ctx, a.pager, "history/"+ch.ID, func(ctx context.Context, cursor string) (slackapi.Page[slackapi.Message], error) {
		resp, err := a.api.GetConversationHistory(ctx, ch.ID, &slackapi.HistoryOptions{
			Limit:  slackapi.MaxPageSize,
			Cursor: cursor,
		})
		if err != nil {
			return slackapi.Page[slackapi.Message]{}, err
		}
		return slackapi.Page[slackapi.Message]{
			Items:      resp.Messages,
			NextCursor: resp.ResponseMetadata.NextCursor,
		}, nil
	})
	if err != nil {
		return ChannelMessages{}, err
	}

	if !withReplies {
		a.log.Info("channel collected", "channel", ch.Name, "parents", len(parents))
		return ChannelMessages{Channel: ch, Parents: parents, All: parents}, nil
	}

	all := make([]slackapi.Message, 0, len(parents))
	for _, msg := range parents {
		all = append(all, msg)
		if !msg.IsThreadRoot() {
			continue
		}

		replies, err := a.collectReplies(ctx, ch.ID, msg.Timestamp)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ChannelMessages{}, err
			}
			// The root itself stays counted; only its replies are omitted.
			a.log.Warn("reply fetch failed",
				"channel", ch.Name, "thread_ts", msg.Timestamp, "error", err)
			continue
		}
		all = append(all, replies...)
	}

	a.log.Info("channel collected",
		"channel", ch.Name, "parents", len(parents), "with_replies", len(all))

	return ChannelMessages{Channel: ch, Parents: parents, All: all}, nil
}

// collectReplies fetches a thread's replies. The API echoes the root as the
// first message of the first page; it is dropped to avoid double counting.
func (a *Assembler) collectReplies(ctx context.Context, channelID, threadTS string) ([]slackapi.Message, error) {
	return slackapi.CollectPages(ctx, a.pager, "replies/"+channelID+"/"+threadTS, func(ctx context.Context, cursor string) (slackapi.Page[slackapi.Message], error) {
		resp, err := a.api.GetConversationReplies(ctx, channelID, threadTS, &slackapi.RepliesOptions{
			Limit:  slackapi.MaxPageSize,
			Cursor: cursor,
		})
		if err != nil {
			return slackapi.Page[slackapi.Message]{}, err
		}
		msgs := resp.Messages
		if cursor == "" && len(msgs) > 0 {
			msgs = msgs[1:]
		}
		return slackapi.Page[slackapi.Message]{
			Items:      msgs,
			NextCursor: resp.ResponseMetadata.NextCursor,
		}, nil
	})
}
