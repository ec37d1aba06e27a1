package slackapi

import (
	"errors"
	"fmt"
	"time"
)

// APIError represents a non-ok Slack API response.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("slack api error: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("slack api error: %s", e.Code)
}

// Common Slack API error codes
const (
	ErrCodeRateLimited     = "ratelimited"
	ErrCodeInvalidAuth     = "invalid_auth"
	ErrCodeTokenRevoked    = "token_revoked"
	ErrCodeAccountInactive = "account_inactive"
	ErrCodeNotAuthed       = "not_authed"
	ErrCodeChannelNotFound = "channel_not_found"
	ErrCodeUserNotFound    = "user_not_found"
	ErrCodeThreadNotFound  = "thread_not_found"
	ErrCodeNotInChannel    = "not_in_channel"
)

// RateLimitError indicates the API rate limit was exceeded.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %v", e.RetryAfter)
}

// AuthError indicates an authentication failure.
type AuthError struct {
	Code string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication error: %s", e.Code)
}

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	ResourceType string
	ResourceID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.ResourceType, e.ResourceID)
}

// TimestampError indicates a message carried a malformed ts value.
type TimestampError struct {
	TS string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("malformed slack timestamp: %q", e.TS)
}

// CollectionError reports a failed paginated collection. Cursor is the
// cursor of the page that failed (empty for the first page). Loop is set
// when the API returned the same cursor twice in a row, which would
// otherwise paginate forever.
type CollectionError struct {
	Resource string
	Cursor   string
	Loop     bool
	Err      error
}

func (e *CollectionError) Error() string {
	if e.Loop {
		return fmt.Sprintf("collecting %s: cursor loop at %q", e.Resource, e.Cursor)
	}
	return fmt.Sprintf("collecting %s at cursor %q: %v", e.Resource, e.Cursor, e.Err)
}

func (e *CollectionError) Unwrap() error { return e.Err }

// IsRateLimitError checks if an error is a rate limit error.
func IsRateLimitError(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var ae *AuthError
	if errors.As(err, &ae) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case ErrCodeInvalidAuth, ErrCodeTokenRevoked, ErrCodeAccountInactive, ErrCodeNotAuthed:
			return true
		}
	}
	return false
}

// IsNotFoundError checks if an error is a not found error.
func IsNotFoundError(err error) bool {
	var nfe *NotFoundError
	if errors.As(err, &nfe) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case ErrCodeChannelNotFound, ErrCodeUserNotFound, ErrCodeThreadNotFound:
			return true
		}
	}
	return false
}

// IsCursorLoop checks if an error is a cursor loop collection failure.
func IsCursorLoop(err error) bool {
	var ce *CollectionError
	return errors.As(err, &ce) && ce.Loop
}

// classifyError converts a Slack API error code to a typed error.
func classifyError(code string, retryAfter time.Duration) error {
	switch code {
	case ErrCodeRateLimited:
		return &RateLimitError{RetryAfter: retryAfter}
	case ErrCodeInvalidAuth, ErrCodeTokenRevoked, ErrCodeAccountInactive, ErrCodeNotAuthed:
		return &AuthError{Code: code}
	case ErrCodeChannelNotFound:
		return &NotFoundError{ResourceType: "channel"}
	case ErrCodeUserNotFound:
		return &NotFoundError{ResourceType: "user"}
	case ErrCodeThreadNotFound:
		return &NotFoundError{ResourceType: "thread"}
	default:
		return &APIError{Code: code}
	}
}
