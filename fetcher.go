package prodcrawl

import "context"

// Fetcher retrieves the raw HTML of a page.
type Fetcher interface {
	// Fetch issues a single request for the URL and returns the body.
	// Non-success statuses, timeouts and transport failures are errors;
	// transient failures carry the EUNAVAILABLE code.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
