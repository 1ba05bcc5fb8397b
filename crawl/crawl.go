// Package crawl provides the product crawl engine.
// It coordinates the frontier, the visited set, fetching, extraction and
// link discovery for a single site, and hands records to a prodcrawl.Sink.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/prodcrawl"
)

// Crawler performs depth-bounded breadth-first crawls of a single site.
//
// A Crawler runs one crawl at a time. Stop may be called from any goroutine
// while Run is in progress.
type Crawler struct {
	Fetcher   prodcrawl.Fetcher
	Extractor prodcrawl.ProductExtractor
	Links     prodcrawl.LinkDiscoverer

	// Sitemaps, when set, seeds the frontier with in-scope sitemap URLs
	// at depth 1.
	Sitemaps prodcrawl.SitemapService

	// RateLimiter, when set, is consulted before every request.
	RateLimiter prodcrawl.DomainLimiter

	// NewVisitedSet creates the visited set of each run.
	// Defaults to an exact in-memory set.
	NewVisitedSet func() prodcrawl.VisitedSet

	// Scope filters sitemap URLs. Defaults to prodcrawl.ScopeOrigin.
	Scope prodcrawl.Scope

	// Delay is the pause after every processed page.
	Delay time.Duration

	// MaxPages caps the pages fetched per run. Zero means no cap.
	MaxPages int

	// RetryDelays is the backoff schedule for transient fetch failures.
	// Nil uses DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	// Progress receives crawl events. It is called from the crawl goroutine.
	Progress ProgressFunc

	active atomic.Pointer[run]
}

// Result holds the outcome of a crawl run.
type Result struct {
	Visited int
	Emitted int
	Failed  int

	// Stopped is true when the run ended through Stop or context
	// cancellation rather than by running out of work.
	Stopped bool
}

// ProgressEvent reports progress during a crawl run.
type ProgressEvent struct {
	Type    ProgressType
	URL     string
	Depth   int
	Attempt int
	Visited int
	Queued  int
	Product *prodcrawl.Product
	Error   error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressVisited ProgressType = iota
	ProgressEmitted
	ProgressRetrying
	ProgressFailed
	ProgressFinished
)

// String returns the lowercase name of the event type.
func (t ProgressType) String() string {
	switch t {
	case ProgressVisited:
		return "visited"
	case ProgressEmitted:
		return "emitted"
	case ProgressRetrying:
		return "retrying"
	case ProgressFailed:
		return "failed"
	case ProgressFinished:
		return "finished"
	}
	return fmt.Sprintf("ProgressType(%d)", int(t))
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// run is the state of one crawl run.
type run struct {
	frontier *Frontier
	visited  prodcrawl.VisitedSet
	running  atomic.Bool

	// waitCtx is done when the run is stopped or its parent context is
	// done. Waits (pacing, rate limiting, retry backoff) use it; requests
	// use the parent context so the page in progress can finish.
	waitCtx context.Context
	cancel  context.CancelFunc
}

func (r *run) stop() {
	r.running.Store(false)
	r.cancel()
}

// sleep waits for d or until the run is stopped or its context is done.
func (r *run) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-r.waitCtx.Done():
	}
}

// Run crawls the site of seed breadth-first down to maxDepth and emits
// every page that carries product data to sink.
//
// Invalid arguments return EINVALID before any request is made. A second
// Run while one is in progress returns ECONFLICT. When the frontier runs
// out, or MaxPages is reached, sink.Complete is called once. A run ended by
// Stop or by ctx cancellation returns a Result with Stopped set and a nil
// error, and Complete is not called. A sink error ends the run and is
// returned.
func (c *Crawler) Run(ctx context.Context, seed string, maxDepth int, sink prodcrawl.Sink) (*Result, error) {
	if err := prodcrawl.ValidateSeed(seed); err != nil {
		return nil, err
	}
	if maxDepth < 0 {
		return nil, prodcrawl.Errorf(prodcrawl.EINVALID, "max depth must not be negative: %d", maxDepth)
	}
	if sink == nil {
		return nil, prodcrawl.Errorf(prodcrawl.EINVALID, "sink required")
	}
	if c.Fetcher == nil || c.Extractor == nil || c.Links == nil {
		return nil, prodcrawl.Errorf(prodcrawl.EINVALID, "crawler requires a fetcher, an extractor and a link discoverer")
	}
	if c.MaxPages < 0 {
		return nil, prodcrawl.Errorf(prodcrawl.EINVALID, "max pages must not be negative: %d", c.MaxPages)
	}

	seedURL, _ := prodcrawl.NormalizeURL(seed)
	origin, _ := prodcrawl.Origin(seedURL)

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	r := &run{
		frontier: NewFrontier(),
		visited:  c.newVisitedSet(),
		waitCtx:  waitCtx,
		cancel:   cancel,
	}
	r.running.Store(true)
	if !c.active.CompareAndSwap(nil, r) {
		return nil, prodcrawl.Errorf(prodcrawl.ECONFLICT, "crawl already running")
	}
	defer c.active.CompareAndSwap(r, nil)

	r.frontier.Push(prodcrawl.Target{URL: seedURL, Depth: 0})
	if c.Sitemaps != nil && maxDepth >= 1 {
		c.seedFromSitemap(ctx, r, origin)
	}

	var result Result
	for r.running.Load() && ctx.Err() == nil {
		target, ok := r.frontier.Pop()
		if !ok {
			break
		}
		if target.Depth > maxDepth || r.visited.Has(target.URL) {
			continue
		}
		if c.MaxPages > 0 && result.Visited >= c.MaxPages {
			break
		}
		if !r.visited.Visit(target.URL) {
			continue
		}
		result.Visited++
		c.notify(ProgressEvent{
			Type:    ProgressVisited,
			URL:     target.URL,
			Depth:   target.Depth,
			Visited: result.Visited,
			Queued:  r.frontier.Len(),
		})

		if err := c.processPage(ctx, r, origin, target, sink, &result); err != nil {
			if ctx.Err() != nil {
				break
			}
			return &result, err
		}

		r.sleep(c.Delay)
	}

	if !r.running.Load() || ctx.Err() != nil {
		result.Stopped = true
	} else if err := sink.Complete(ctx); err != nil {
		return &result, fmt.Errorf("complete: %w", err)
	}

	c.notify(ProgressEvent{
		Type:    ProgressFinished,
		Visited: result.Visited,
		Queued:  r.frontier.Len(),
	})
	return &result, nil
}

// Stop asks the running crawl to halt after the page in progress. The
// pacing delay is interrupted. Stop is a no-op when no crawl is running.
func (c *Crawler) Stop() {
	if r := c.active.Load(); r != nil {
		r.stop()
	}
}

// Running reports whether a crawl is in progress and has not been stopped.
func (c *Crawler) Running() bool {
	r := c.active.Load()
	return r != nil && r.running.Load()
}

// processPage fetches, extracts and expands one target. Page-level failures
// are reported through Progress and counted; only sink errors are returned.
func (c *Crawler) processPage(ctx context.Context, r *run, origin string, target prodcrawl.Target, sink prodcrawl.Sink, result *Result) error {
	html, err := c.fetch(ctx, r, target)
	if err != nil {
		c.pageFailed(ctx, r, target, err, result)
		return nil
	}

	product, err := c.Extractor.Extract(html, target.URL)
	if err != nil {
		c.pageFailed(ctx, r, target, err, result)
		return nil
	}

	links, err := c.Links.DiscoverLinks(html, origin)
	if err != nil {
		c.pageFailed(ctx, r, target, err, result)
		return nil
	}

	if product != nil && product.HasData() {
		if err := sink.Emit(ctx, product); err != nil {
			return fmt.Errorf("emit %s: %w", target.URL, err)
		}
		result.Emitted++
		c.notify(ProgressEvent{
			Type:    ProgressEmitted,
			URL:     target.URL,
			Depth:   target.Depth,
			Visited: result.Visited,
			Queued:  r.frontier.Len(),
			Product: product,
		})
	}

	for _, link := range links {
		if !r.visited.Has(link) {
			r.frontier.Push(prodcrawl.Target{URL: link, Depth: target.Depth + 1})
		}
	}
	return nil
}

// fetch retrieves a page, waiting on the rate limiter before each attempt
// and retrying transient failures. Stop interrupts the waits but not a
// request in progress.
func (c *Crawler) fetch(ctx context.Context, r *run, target prodcrawl.Target) (string, error) {
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	fetchFn := func(waitCtx context.Context, rawURL string) (string, error) {
		if c.RateLimiter != nil {
			u, err := url.Parse(rawURL)
			if err != nil {
				return "", prodcrawl.Errorf(prodcrawl.EINVALID, "invalid URL %q: %v", rawURL, err)
			}
			if err := c.RateLimiter.Wait(waitCtx, u.Host); err != nil {
				return "", err
			}
		}
		return c.Fetcher.Fetch(ctx, rawURL)
	}

	onRetry := func(attempt int, err error) {
		c.notify(ProgressEvent{
			Type:    ProgressRetrying,
			URL:     target.URL,
			Depth:   target.Depth,
			Attempt: attempt,
			Error:   err,
		})
	}
	return FetchWithRetryDelays(r.waitCtx, target.URL, fetchFn, onRetry, delays)
}

// pageFailed records a page failure. Failures caused by cancellation or by
// Stop are not counted.
func (c *Crawler) pageFailed(ctx context.Context, r *run, target prodcrawl.Target, err error, result *Result) {
	if ctx.Err() != nil {
		return
	}
	if !r.running.Load() && errors.Is(err, context.Canceled) {
		return
	}
	result.Failed++
	c.notify(ProgressEvent{
		Type:    ProgressFailed,
		URL:     target.URL,
		Depth:   target.Depth,
		Visited: result.Visited,
		Error:   err,
	})
}

// seedFromSitemap queues in-scope sitemap URLs at depth 1. A sitemap
// failure is reported and the crawl continues from the seed alone.
func (c *Crawler) seedFromSitemap(ctx context.Context, r *run, origin string) {
	urls, err := c.Sitemaps.DiscoverURLs(ctx, origin)
	if err != nil {
		if ctx.Err() == nil {
			c.notify(ProgressEvent{Type: ProgressFailed, URL: origin, Error: fmt.Errorf("sitemap: %w", err)})
		}
		return
	}
	for _, raw := range urls {
		u, err := prodcrawl.NormalizeURL(raw)
		if err != nil || !c.Scope.Contains(origin, u) {
			continue
		}
		r.frontier.Push(prodcrawl.Target{URL: u, Depth: 1})
	}
}

func (c *Crawler) newVisitedSet() prodcrawl.VisitedSet {
	if c.NewVisitedSet != nil {
		return c.NewVisitedSet()
	}
	return NewVisitedSet()
}

func (c *Crawler) notify(event ProgressEvent) {
	if c.Progress != nil {
		c.Progress(event)
	}
}
