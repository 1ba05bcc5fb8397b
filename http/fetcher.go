// Package http provides HTTP implementations of prodcrawl.Fetcher and
// prodcrawl.SitemapService.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/prodcrawl"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = prodcrawl.DefaultTimeout

// Ensure Fetcher implements prodcrawl.Fetcher at compile time.
var _ prodcrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using plain HTTP GET requests.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize limits how many bytes of a response body are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   prodcrawl.DefaultUserAgent,
		maxBodySize: prodcrawl.DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at url and returns its body decoded to UTF-8.
//
// Errors carry application codes: ENOTFOUND for 404 and 410, EUNAVAILABLE
// for 429, 5xx, timeouts and transport failures, EINVALID for other
// non-success statuses. Context cancellation is returned unwrapped.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", prodcrawl.Errorf(prodcrawl.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return "", ctxErr
		}
		return "", prodcrawl.Errorf(prodcrawl.EUNAVAILABLE, "GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, url); err != nil {
		return "", err
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", prodcrawl.Errorf(prodcrawl.EINVALID, "unsupported charset for %s: %v", url, err)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", prodcrawl.Errorf(prodcrawl.EUNAVAILABLE, "reading %s: %v", url, err)
	}

	return string(b), nil
}

// checkStatus maps non-success status codes to application errors.
func checkStatus(code int, url string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound, code == http.StatusGone:
		return prodcrawl.Errorf(prodcrawl.ENOTFOUND, "HTTP %d for %s", code, url)
	case code == http.StatusTooManyRequests, code >= 500:
		return prodcrawl.Errorf(prodcrawl.EUNAVAILABLE, "HTTP %d for %s", code, url)
	default:
		return prodcrawl.Errorf(prodcrawl.EINVALID, "HTTP %d for %s", code, url)
	}
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
