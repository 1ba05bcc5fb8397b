package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fwojciec/prodcrawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Runs is nil unless the command was given a database path.
	Runs prodcrawl.RunService

	Interrupts <-chan os.Signal
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl    CrawlCmd    `cmd:"" help:"Crawl a site and extract products"`
	Runs     RunsCmd     `cmd:"" help:"List stored crawl runs"`
	Products ProductsCmd `cmd:"" help:"List stored products of a run"`
}

// CrawlCmd is the "crawl" subcommand. Unset optional flags fall back to the
// config file, then to the built-in defaults.
type CrawlCmd struct {
	URL       string         `arg:"" help:"Seed URL (http or https)"`
	Depth     int            `short:"d" default:"3" help:"Maximum link depth from the seed"`
	Config    string         `short:"c" type:"path" help:"YAML config file"`
	Out       *string        `short:"o" help:"Output directory for CSV files"`
	DB        string         `env:"PRODCRAWL_DB" help:"Also store the run in this SQLite database"`
	Delay     *time.Duration `help:"Pause after every page"`
	Timeout   *time.Duration `help:"Per-request timeout"`
	Retries   *int           `help:"Retries for transient fetch failures"`
	UserAgent *string        `name:"user-agent" help:"User-Agent header"`
	MaxPages  *int           `name:"max-pages" help:"Maximum pages to fetch"`
	RPS       *float64       `name:"rps" help:"Requests per second per host (0 disables)"`
	Scope     *string        `help:"Link scope: origin or substring"`
	Dedup     *string        `help:"Visited set: exact or bloom"`
	Sitemap   bool           `help:"Seed the frontier from /sitemap.xml"`
	LogFile   string         `name:"log-file" type:"path" help:"Write logs to a rotating file instead of stderr"`
	Verbose   bool           `short:"v" help:"Log every page"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	DB    string `env:"PRODCRAWL_DB" default:"prodcrawl.db" help:"SQLite database"`
	Limit int    `short:"n" default:"20" help:"Maximum runs to list (0 for all)"`
}

// ProductsCmd is the "products" subcommand.
type ProductsCmd struct {
	RunID        string `arg:"" name:"run-id" help:"Run ID"`
	DB           string `env:"PRODCRAWL_DB" default:"prodcrawl.db" help:"SQLite database"`
	ChangedSince string `name:"changed-since" placeholder:"RUN-ID" help:"Only list records that are new or differ from this earlier run"`
}
