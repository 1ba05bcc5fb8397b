package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/prodcrawl/sqlite"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	ctx := context.Background()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	m := NewMain()
	m.Interrupts = interrupts

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by the run store. Opened only when a command
	// names a database path.
	DB *sqlite.DB

	// Interrupts delivers interrupt signals to a running crawl.
	Interrupts <-chan os.Signal

	logFile io.Closer
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.logFile != nil {
		_ = m.logFile.Close()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:        ctx,
		Stdout:     stdout,
		Stderr:     stderr,
		Interrupts: m.Interrupts,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("prodcrawl"),
		kong.Description("Crawl a single site and extract product records."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'prodcrawl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	var dbPath string
	switch cmd {
	case "crawl":
		dbPath = cli.Crawl.DB
		deps.Logger = m.newLogger(stderr, cli.Crawl.LogFile, cli.Crawl.Verbose)
	case "runs":
		dbPath = cli.Runs.DB
	case "products":
		dbPath = cli.Products.DB
	}
	if deps.Logger == nil {
		deps.Logger = m.newLogger(stderr, "", false)
	}

	if dbPath != "" {
		m.DB = sqlite.NewDB(dbPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set PRODCRAWL_DB or --db to use a different database path\n")
			m.DB = nil
			return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		deps.Runs = sqlite.NewRunService(m.DB)
	}

	return kongCtx.Run(deps)
}

// newLogger builds the text logger used by the crawl. A non-empty path
// sends output to a size-rotated file instead of stderr.
func (m *Main) newLogger(stderr io.Writer, path string, verbose bool) *slog.Logger {
	w := stderr
	if path != "" {
		lj := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		m.logFile = lj
		w = lj
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
