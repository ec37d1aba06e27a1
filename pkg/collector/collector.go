// Package collector builds the run's read-only snapshots from the Slack
// API: the channel and user directories, and per-channel conversation sets
// with thread replies merged in.
package collector

import (
	"context"

	"github.com/mkurata/slack-pulse/pkg/slackapi"
)

// API is the slice of the Slack client the collectors depend on.
type API interface {
	ListConversations(ctx context.Context, opts *slackapi.ListConversationsOptions) (*slackapi.ConversationsListResponse, error)
	ListUsers(ctx context.Context, cursor string) (*slackapi.UsersListResponse, error)
	GetConversationHistory(ctx context.Context, channelID string, opts *slackapi.HistoryOptions) (*slackapi.HistoryResponse, error)
	GetConversationReplies(ctx context.Context, channelID, threadTS string, opts *slackapi.RepliesOptions) (*slackapi.RepliesResponse, error)
}
