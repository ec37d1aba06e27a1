package slackapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://slack.com/api"
	defaultTimeout = 30 * time.Second

	// MaxPageSize is the largest page the Web API accepts per list request.
	// Larger windows are always paginated, never requested in one call.
	MaxPageSize = 200
)

// Client is a Slack Web API client authenticated with a bot token (xoxb-).
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithBaseURL sets a custom base URL.
func WithBaseURL(u string) ClientOption {
	return func(client *Client) {
		client.baseURL = u
	}
}

// NewClient creates a client using a bot token (xoxb-).
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request makes an API request to Slack.
func (c *Client) request(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	u := fmt.Sprintf("%s/%s", c.baseURL, endpoint)

	var body io.Reader
	if params != nil {
		body = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := 1 * time.Second
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return &RateLimitError{RetryAfter: retryAfter}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// clampLimit applies the API page size cap, defaulting to the maximum.
func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// ListConversationsOptions configures ListConversations.
type ListConversationsOptions struct {
	Cursor          string
	Limit           int
	Types           []string // "public_channel", "private_channel"
	ExcludeArchived bool
}

// ListConversations retrieves one page of conversations.
func (c *Client) ListConversations(ctx context.Context, opts *ListConversationsOptions) (*ConversationsListResponse, error) {
	params := url.Values{}
	if opts == nil {
		opts = &ListConversationsOptions{}
	}
	params.Set("limit", strconv.Itoa(clampLimit(opts.Limit)))
	if opts.Cursor != "" {
		params.Set("cursor", opts.Cursor)
	}
	if len(opts.Types) > 0 {
		params.Set("types", strings.Join(opts.Types, ","))
	}
	if opts.ExcludeArchived {
		params.Set("exclude_archived", "true")
	}

	var resp ConversationsListResponse
	if err := c.request(ctx, "conversations.list", params, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, classifyError(resp.Error, 0)
	}
	return &resp, nil
}

// ListUsers retrieves one page of workspace members.
func (c *Client) ListUsers(ctx context.Context, cursor string) (*UsersListResponse, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(MaxPageSize))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	var resp UsersListResponse
	if err := c.request(ctx, "users.list", params, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, classifyError(resp.Error, 0)
	}
	return &resp, nil
}

// HistoryOptions configures GetConversationHistory.
type HistoryOptions struct {
	Limit  int
	Cursor string
	Oldest string // Only messages after this timestamp
	Latest string // Only messages before this timestamp
}

// GetConversationHistory retrieves one page of message history.
func (c *Client) GetConversationHistory(ctx context.Context, channelID string, opts *HistoryOptions) (*HistoryResponse, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	if opts == nil {
		opts = &HistoryOptions{}
	}
	params.Set("limit", strconv.Itoa(clampLimit(opts.Limit)))
	if opts.Cursor != "" {
		params.Set("cursor", opts.Cursor)
	}
	if opts.Oldest != "" {
		params.Set("oldest", opts.Oldest)
	}
	if opts.Latest != "" {
		params.Set("latest", opts.Latest)
	}

	var resp HistoryResponse
	if err := c.request(ctx, "conversations.history", params, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, classifyError(resp.Error, 0)
	}
	return &resp, nil
}

// RepliesOptions configures GetConversationReplies.
type RepliesOptions struct {
	Limit  int
	Cursor string
}

// GetConversationReplies retrieves one page of a thread's replies.
// The first message of the first page is always the thread root itself.
func (c *Client) GetConversationReplies(ctx context.Context, channelID, threadTS string, opts *RepliesOptions) (*RepliesResponse, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("ts", threadTS)
	if opts == nil {
		opts = &RepliesOptions{}
	}
	params.Set("limit", strconv.Itoa(clampLimit(opts.Limit)))
	if opts.Cursor != "" {
		params.Set("cursor", opts.Cursor)
	}

	var resp RepliesResponse
	if err := c.request(ctx, "conversations.replies", params, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, classifyError(resp.Error, 0)
	}
	return &resp, nil
}

// PostMessage posts a plain-text message to a channel.
func (c *Client) PostMessage(ctx context.Context, channelID, text string) (*PostMessageResponse, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("text", text)

	var resp PostMessageResponse
	if err := c.request(ctx, "chat.postMessage", params, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, classifyError(resp.Error, 0)
	}
	return &resp, nil
}
