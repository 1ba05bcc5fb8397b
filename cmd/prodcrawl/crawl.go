package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/prodcrawl"
	"github.com/fwojciec/prodcrawl/bloom"
	"github.com/fwojciec/prodcrawl/crawl"
	"github.com/fwojciec/prodcrawl/fs"
	"github.com/fwojciec/prodcrawl/goquery"
	prodhttp "github.com/fwojciec/prodcrawl/http"
	prodslog "github.com/fwojciec/prodcrawl/slog"
	"github.com/fwojciec/prodcrawl/sqlite"
	"github.com/fwojciec/prodcrawl/yaml"
	"golang.org/x/sync/errgroup"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	err := c.run(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodcrawl.ErrorMessage(err))
	}
	return err
}

func (c *CrawlCmd) run(deps *Dependencies) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if err := prodcrawl.ValidateSeed(c.URL); err != nil {
		return err
	}
	if c.Depth < 0 {
		return prodcrawl.Errorf(prodcrawl.EINVALID, "depth must not be negative: %d", c.Depth)
	}

	logger := deps.Logger
	fetcher := prodslog.NewLoggingFetcher(prodhttp.NewFetcher(
		prodhttp.WithTimeout(cfg.Timeout),
		prodhttp.WithUserAgent(cfg.UserAgent),
		prodhttp.WithMaxBodySize(cfg.MaxBodySize),
	), logger)
	defer fetcher.Close()

	crawler := &crawl.Crawler{
		Fetcher:     fetcher,
		Extractor:   goquery.NewExtractor(cfg.Selectors),
		Links:       goquery.NewLinkDiscoverer(cfg.Scope),
		Scope:       cfg.Scope,
		Delay:       cfg.Delay,
		MaxPages:    cfg.MaxPages,
		RetryDelays: cfg.RetryDelays(),
		Progress:    prodslog.ProgressLogger(logger),
	}
	if cfg.Dedup == prodcrawl.DedupBloom {
		crawler.NewVisitedSet = func() prodcrawl.VisitedSet {
			return bloom.NewFilter(bloom.DefaultExpectedURLs, bloom.DefaultFalsePositiveRate)
		}
	}
	if cfg.RequestsPerSecond > 0 {
		crawler.RateLimiter = crawl.NewDomainLimiter(cfg.RequestsPerSecond)
	}
	if c.Sitemap {
		client := &http.Client{Timeout: cfg.Timeout}
		crawler.Sitemaps = prodslog.NewLoggingSitemapService(prodhttp.NewSitemapService(client, cfg.UserAgent), logger)
	}

	csvWriter := fs.NewCSVWriter(cfg.OutputDir)
	if err := csvWriter.Open(); err != nil {
		return err
	}
	defer csvWriter.Close()

	sinks := crawl.MultiSink{csvWriter}

	var store *sqlite.Sink
	if deps.Runs != nil {
		run := &prodcrawl.Run{SeedURL: c.URL, MaxDepth: c.Depth}
		if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		store = sqlite.NewSink(deps.Runs, run.ID)
		sinks = append(sinks, store)
	}

	printer := crawl.NewChanSink(16)
	sinks = append(sinks, printer)
	sink := prodslog.NewLoggingSink(sinks, logger)

	ctx, cancel := context.WithCancel(deps.Ctx)
	defer cancel()

	start := time.Now()
	done := make(chan struct{})
	var result *crawl.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		defer printer.Close()
		var err error
		result, err = crawler.Run(gctx, c.URL, c.Depth, sink)
		return err
	})
	g.Go(func() error {
		printRow(deps.Stdout, prodcrawl.Columns())
		for p := range printer.Products() {
			printRow(deps.Stdout, p.Values())
		}
		return nil
	})
	g.Go(func() error {
		return watchInterrupts(deps, done, crawler.Stop, cancel)
	})
	runErr := g.Wait()

	if store != nil {
		if status := runStatus(result, runErr); status != prodcrawl.RunCompleted {
			if err := store.Finish(context.WithoutCancel(deps.Ctx), status); err != nil {
				logger.Warn("finish run", "run", store.RunID(), "err", err)
			}
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(deps.Stderr, crawl.FormatSummary(result, time.Since(start)))
	fmt.Fprintf(deps.Stderr, "wrote %s\n", csvWriter.Path())
	if store != nil {
		fmt.Fprintf(deps.Stderr, "run %s\n", store.RunID())
	}
	return nil
}

// config returns the config file (or defaults) with flag overrides applied.
func (c *CrawlCmd) config() (*prodcrawl.Config, error) {
	cfg := prodcrawl.DefaultConfig()
	if c.Config != "" {
		var err error
		if cfg, err = yaml.LoadConfig(c.Config); err != nil {
			return nil, err
		}
	}

	if c.Out != nil {
		cfg.OutputDir = *c.Out
	}
	if c.Delay != nil {
		cfg.Delay = *c.Delay
	}
	if c.Timeout != nil {
		cfg.Timeout = *c.Timeout
	}
	if c.Retries != nil {
		cfg.MaxRetries = *c.Retries
	}
	if c.UserAgent != nil {
		cfg.UserAgent = *c.UserAgent
	}
	if c.MaxPages != nil {
		cfg.MaxPages = *c.MaxPages
	}
	if c.RPS != nil {
		cfg.RequestsPerSecond = *c.RPS
	}
	if c.Scope != nil {
		cfg.Scope = prodcrawl.Scope(*c.Scope)
	}
	if c.Dedup != nil {
		cfg.Dedup = prodcrawl.Dedup(*c.Dedup)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// watchInterrupts stops the crawl on the first interrupt and cancels it on
// the second. It returns once done is closed.
func watchInterrupts(deps *Dependencies, done <-chan struct{}, stop, cancel func()) error {
	stopping := false
	for {
		select {
		case <-done:
			return nil
		case <-deps.Interrupts:
			if stopping {
				fmt.Fprintln(deps.Stderr, "aborting")
				cancel()
				return nil
			}
			stopping = true
			fmt.Fprintln(deps.Stderr, "stopping after the current page (interrupt again to abort)")
			stop()
		}
	}
}

func runStatus(result *crawl.Result, err error) prodcrawl.RunStatus {
	switch {
	case err != nil || result == nil:
		return prodcrawl.RunFailed
	case result.Stopped:
		return prodcrawl.RunStopped
	default:
		return prodcrawl.RunCompleted
	}
}

// printRow writes values as one tab-separated line. Tabs and newlines in
// values are replaced by spaces.
func printRow(w io.Writer, values []string) {
	clean := make([]string, len(values))
	for i, v := range values {
		clean[i] = strings.Map(func(r rune) rune {
			if r == '\t' || r == '\n' || r == '\r' {
				return ' '
			}
			return r
		}, v)
	}
	fmt.Fprintln(w, strings.Join(clean, "\t"))
}
