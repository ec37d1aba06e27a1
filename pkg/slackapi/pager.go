package slackapi

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultPageInterval = 1 * time.Second
	defaultMaxAttempts  = 3
)

// Page is one slice of a cursor-paginated listing. An empty NextCursor
// means the listing is exhausted.
type Page[T any] struct {
	Items      []T
	NextCursor string
}

// PageFunc fetches the page identified by cursor. The empty cursor
// identifies the first page.
type PageFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Pager walks cursor-paginated listings while respecting the Slack rate
// limit. The limiter is a token bucket with burst 1: the first request on a
// fresh pager goes out immediately, every following request waits out the
// configured interval. A single Pager may be shared by concurrent workers,
// which keeps the aggregate request rate within the same budget.
type Pager struct {
	limiter     *rate.Limiter
	maxAttempts int
	log         *slog.Logger
}

// PagerOption configures a Pager.
type PagerOption func(*Pager)

// WithMaxAttempts sets how often a rate-limited page fetch is retried
// before the collection fails.
func WithMaxAttempts(n int) PagerOption {
	return func(p *Pager) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithLogger sets the logger used for retry reporting.
func WithLogger(log *slog.Logger) PagerOption {
	return func(p *Pager) {
		p.log = log
	}
}

// NewPager creates a pager with the given minimum inter-request interval.
// An interval of zero falls back to the default of one second.
func NewPager(interval time.Duration, opts ...PagerOption) *Pager {
	if interval <= 0 {
		interval = defaultPageInterval
	}
	p := &Pager{
		limiter:     rate.NewLimiter(rate.Every(interval), 1),
		maxAttempts: defaultMaxAttempts,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CollectPages fetches every page of a listing and returns the concatenated
// items in page order. Rate-limited pages are retried with the server's
// Retry-After before giving up. A repeated cursor fails the collection
// rather than paginating forever.
func CollectPages[T any](ctx context.Context, p *Pager, resource string, fetch PageFunc[T]) ([]T, error) {
	var items []T
	cursor := ""

	for {
		page, err := fetchPage(ctx, p, resource, cursor, fetch)
		if err != nil {
			return items, err
		}

		items = append(items, page.Items...)

		if page.NextCursor == "" {
			return items, nil
		}
		if page.NextCursor == cursor {
			return items, &CollectionError{Resource: resource, Cursor: cursor, Loop: true}
		}
		cursor = page.NextCursor
	}
}

// fetchPage fetches a single page, pacing against the limiter and retrying
// rate-limited attempts.
func fetchPage[T any](ctx context.Context, p *Pager, resource, cursor string, fetch PageFunc[T]) (Page[T], error) {
	var zero Page[T]

	for attempt := 1; ; attempt++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return zero, &CollectionError{Resource: resource, Cursor: cursor, Err: err}
		}

		page, err := fetch(ctx, cursor)
		if err == nil {
			return page, nil
		}

		rle, ok := err.(*RateLimitError)
		if !ok || attempt >= p.maxAttempts {
			return zero, &CollectionError{Resource: resource, Cursor: cursor, Err: err}
		}

		p.log.Warn("rate limited, backing off",
			"resource", resource,
			"cursor", cursor,
			"attempt", attempt,
			"retry_after", rle.RetryAfter)

		select {
		case <-ctx.Done():
			return zero, &CollectionError{Resource: resource, Cursor: cursor, Err: ctx.Err()}
		case <-time.After(rle.RetryAfter):
		}
	}
}
