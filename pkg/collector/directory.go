package collector

import (
	"context"
	"log/slog"

	"github.com/mkurata/slack-pulse/pkg/models"
	"github.com/mkurata/slack-pulse/pkg/slackapi"
)

// DirectoryLoader builds the channel and user directories.
type DirectoryLoader struct {
	api   API
	pager *slackapi.Pager
	log   *slog.Logger
}

// NewDirectoryLoader creates a directory loader sharing the given pager.
func NewDirectoryLoader(api API, pager *slackapi.Pager, log *slog.Logger) *DirectoryLoader {
	if log == nil {
		log = slog.Default()
	}
	return &DirectoryLoader{api: api, pager: pager, log: log}
}

// Channels fetches all non-archived channels whose name passes keep,
// in fetch order, deduplicated by id. A nil keep accepts every channel.
// An empty result is valid.
func (l *DirectoryLoader) Channels(ctx context.Context, keep func(name string) bool) ([]models.Channel, error) {
	convs, err := slackapi.CollectPages(ctx, l.pager, "channels", func(ctx context.Context, cursor string) (slackapi.Page[slackapi.Conversation], error) {
		resp, err := l.api.ListConversations(ctx, &slackapi.ListConversationsOptions{
			Cursor:          cursor,
			Limit:           slackapi.MaxPageSize,
			ExcludeArchived: true,
		})
		if err != nil {
			return slackapi.Page[slackapi.Conversation]{}, err
		}
		return slackapi.Page[slackapi.Conversation]{
			Items:      resp.Channels,
			NextCursor: resp.ResponseMetadata.NextCursor,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(convs))
	var channels []models.Channel
	for _, c := range convs {
		if c.IsArchived || seen[c.ID] {
			continue
		}
		if keep != nil && !keep(c.Name) {
			continue
		}
		seen[c.ID] = true
		channels = append(channels, models.Channel{
			ID:       c.ID,
			Name:     c.Name,
			Archived: c.IsArchived,
		})
	}

	l.log.Info("channel directory loaded", "channels", len(channels), "fetched", len(convs))
	return channels, nil
}

// Users fetches all workspace members, excluding deleted users and bots,
// keyed by id with display names resolved. An empty result is valid.
func (l *DirectoryLoader) Users(ctx context.Context) (models.Directory, error) {
	members, err := slackapi.CollectPages(ctx, l.pager, "users", func(ctx context.Context, cursor string) (slackapi.Page[slackapi.User], error) {
		resp, err := l.api.ListUsers(ctx, cursor)
		if err != nil {
			return slackapi.Page[slackapi.User]{}, err
		}
		return slackapi.Page[slackapi.User]{
			Items:      resp.Members,
			NextCursor: resp.ResponseMetadata.NextCursor,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	dir := make(models.Directory, len(members))
	for i := range members {
		m := &members[i]
		if m.Deleted || m.IsBot {
			continue
		}
		dir[m.ID] = models.User{
			ID:          m.ID,
			DisplayName: models.ResolveDisplayName(m),
			IsBot:       m.IsBot,
			Deleted:     m.Deleted,
		}
	}

	l.log.Info("user directory loaded", "users", len(dir), "fetched", len(members))
	return dir, nil
}
