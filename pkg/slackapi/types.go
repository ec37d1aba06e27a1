// Package slackapi provides a Slack Web API client for workspace statistics
// collection: cursor-paginated channel, user, history, and reply listings,
// plus posting summary messages.
package slackapi

import "time"

// Conversation represents a Slack conversation as returned by
// conversations.list.
type Conversation struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsChannel  bool   `json:"is_channel"`
	IsPrivate  bool   `json:"is_private"`
	IsArchived bool   `json:"is_archived"`
	NumMembers int    `json:"num_members"`
}

// Message represents a Slack message.
type Message struct {
	Type       string     `json:"type"`
	Subtype    string     `json:"subtype,omitempty"`
	User       string     `json:"user"`
	Text       string     `json:"text"`
	Timestamp  string     `json:"ts"`
	ThreadTS   string     `json:"thread_ts,omitempty"`
	ReplyCount int        `json:"reply_count,omitempty"`
	Reactions  []Reaction `json:"reactions,omitempty"`
	BotID      string     `json:"bot_id,omitempty"`
}

// IsThreadRoot reports whether the message started a reply thread.
// A reply fetched from conversations.replies carries its parent's thread_ts,
// which differs from its own ts; such messages are never roots.
func (m *Message) IsThreadRoot() bool {
	if m.ReplyCount <= 0 {
		return false
	}
	return m.ThreadTS == "" || m.ThreadTS == m.Timestamp
}

// ParsedTime converts the Slack timestamp to a Go time.
func (m *Message) ParsedTime() (time.Time, error) {
	return ParseTimestamp(m.Timestamp)
}

// ParseTimestamp parses a Slack "seconds.microseconds" timestamp.
func ParseTimestamp(ts string) (time.Time, error) {
	if ts == "" {
		return time.Time{}, &TimestampError{TS: ts}
	}
	var sec, usec int64
	secDigits := 0
	fracDigits := 0
	frac := false
	for _, c := range ts {
		switch {
		case c == '.' && !frac:
			frac = true
		case c >= '0' && c <= '9':
			if frac {
				if fracDigits < 6 {
					usec = usec*10 + int64(c-'0')
					fracDigits++
				}
			} else {
				sec = sec*10 + int64(c-'0')
				secDigits++
			}
		default:
			return time.Time{}, &TimestampError{TS: ts}
		}
	}
	if secDigits == 0 {
		return time.Time{}, &TimestampError{TS: ts}
	}
	for frac && fracDigits < 6 {
		usec *= 10
		fracDigits++
	}
	return time.Unix(sec, usec*1000), nil
}

// Reaction represents an emoji reaction on a message.
type Reaction struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Users []string `json:"users"`
}

// User represents a Slack workspace member.
type User struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	RealName string  `json:"real_name"`
	IsBot    bool    `json:"is_bot"`
	Deleted  bool    `json:"deleted"`
	Profile  Profile `json:"profile"`
}

// Profile holds user profile information.
type Profile struct {
	RealName    string `json:"real_name"`
	DisplayName string `json:"display_name"`
}

// ResponseMetadata carries the pagination cursor for list responses.
type ResponseMetadata struct {
	NextCursor string `json:"next_cursor"`
}

// ConversationsListResponse is the response from conversations.list.
type ConversationsListResponse struct {
	OK               bool             `json:"ok"`
	Error            string           `json:"error,omitempty"`
	Channels         []Conversation   `json:"channels"`
	ResponseMetadata ResponseMetadata `json:"response_metadata"`
}

// UsersListResponse is the response from users.list.
type UsersListResponse struct {
	OK               bool             `json:"ok"`
	Error            string           `json:"error,omitempty"`
	Members          []User           `json:"members"`
	ResponseMetadata ResponseMetadata `json:"response_metadata"`
}

// HistoryResponse is the response from conversations.history.
type HistoryResponse struct {
	OK               bool             `json:"ok"`
	Error            string           `json:"error,omitempty"`
	Messages         []Message        `json:"messages"`
	HasMore          bool             `json:"has_more"`
	ResponseMetadata ResponseMetadata `json:"response_metadata"`
}

// RepliesResponse is the response from conversations.replies.
type RepliesResponse struct {
	OK               bool             `json:"ok"`
	Error            string           `json:"error,omitempty"`
	Messages         []Message        `json:"messages"`
	HasMore          bool             `json:"has_more"`
	ResponseMetadata ResponseMetadata `json:"response_metadata"`
}

// PostMessageResponse is the response from chat.postMessage.
type PostMessageResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Channel string `json:"channel"`
	TS      string `json:"ts"`
}
