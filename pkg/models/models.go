// Package models defines the domain types for workspace engagement stats.
package models

import "github.com/mkurata/slack-pulse/pkg/slackapi"

// UnknownName is rendered for any user id that cannot be resolved to a
// directory entry (deleted users, bots, ids outside the workspace).
const UnknownName = "Unknown"

// Channel represents a Slack channel selected for collection.
type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

// User represents a countable workspace member.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsBot       bool   `json:"is_bot"`
	Deleted     bool   `json:"deleted"`
}

// ResolveDisplayName picks the best available name for a member:
// profile display name, then real name, then "Unknown". Never empty.
func ResolveDisplayName(u *slackapi.User) string {
	if u.Profile.DisplayName != "" {
		return u.Profile.DisplayName
	}
	if u.Profile.RealName != "" {
		return u.Profile.RealName
	}
	if u.RealName != "" {
		return u.RealName
	}
	return UnknownName
}

// Directory is the read-only user snapshot built once per run.
type Directory map[string]User

// DisplayName resolves a user id against the directory, falling back to
// "Unknown" for ids that were excluded or never fetched.
func (d Directory) DisplayName(userID string) string {
	if u, ok := d[userID]; ok && u.DisplayName != "" {
		return u.DisplayName
	}
	return UnknownName
}

// UserStat is one row of the user-activity report.
type UserStat struct {
	UserID           string
	DisplayName      string
	ActiveDays       int
	TotalPosts       int
	PostsWithReplies int
}

// ChannelStat is one row of the channel ranking.
type ChannelStat struct {
	ChannelID   string
	ChannelName string
	Posts       int
	Reactions   int
	ActiveUsers int
	Score       int
}

// ReactionStat is one row of the reaction leaderboard.
type ReactionStat struct {
	UserID      string
	DisplayName string
	Count       int
}

// PostCount is one row of a simple posts-per-group leaderboard.
type PostCount struct {
	Name  string
	Count int
}
