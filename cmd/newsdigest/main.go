package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/newsdigest"
	ndslog "github.com/fwojciec/newsdigest/slog"
	"github.com/fwojciec/newsdigest/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ArticleService newsdigest.ArticleService

	// closers are released by Close in reverse order.
	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("newsdigest"),
		kong.Description("Scrape news articles and summarize them by sentence centrality"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'newsdigest --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// site needs no database
	if cmd == "site" {
		return kongCtx.Run(deps)
	}

	// Open database
	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set NEWSDIGEST_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.ArticleService = sqlite.NewArticleService(m.DB)
	deps.DB = m.DB
	deps.Articles = m.ArticleService

	// Wire command-specific dependencies based on command
	switch cmd {
	case "fetch":
		if err := m.wireFetch(deps, &cli.Fetch); err != nil {
			return err
		}
	case "watch":
		if err := m.wireFetch(deps, &cli.Watch.Fetch); err != nil {
			return err
		}
	case "resummarize":
		summarizer, err := newSummarizer(ctx, cli.Resummarize.Summary, deps.Logger, stderr)
		if err != nil {
			return err
		}
		deps.Summarizer = summarizer
	}

	return kongCtx.Run(deps)
}

// wireFetch builds the pipeline services for a fetch or watch run.
func (m *Main) wireFetch(deps *Dependencies, c *FetchCmd) error {
	site, err := loadSite(c.Site, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsdigest.ErrorMessage(err))
		return err
	}

	fetcher, err := newFetcher(c)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed for --browser")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	m.closers = append(m.closers, fetcher)
	deps.Fetcher = ndslog.NewLoggingFetcher(fetcher, deps.Logger)

	filter, err := newsdigest.NewURLFilter(site.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsdigest.ErrorMessage(err))
		return err
	}
	if c.SkipSeen {
		seen, err := newSeenSet(deps.Ctx, deps.Articles)
		if err != nil {
			return fmt.Errorf("failed to load stored URLs: %w", err)
		}
		filter.Seen = seen
		deps.Seen = seen
	}

	source, err := newSource(site, c, deps.Fetcher, deps.Logger, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsdigest.ErrorMessage(err))
		return err
	}
	deps.Source = ndslog.NewLoggingLinkSource(source, c.Source, deps.Logger)

	deps.Pacer = newPacer(c.MinDelay, c.MaxDelay)
	deps.Extractor = newExtractor(c.Extra)
	if c.DebugDir != "" {
		deps.Debug = newDebugStore(c.DebugDir)
	}

	if c.Summarize && !c.Preview {
		summarizer, err := newSummarizer(deps.Ctx, c.Summary, deps.Logger, deps.Stderr)
		if err != nil {
			return err
		}
		deps.Summarizer = summarizer
	}
	return nil
}

func defaultDBPath() string {
	if path := os.Getenv("NEWSDIGEST_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "newsdigest.db"
	}
	dir := filepath.Join(home, ".newsdigest")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "newsdigest.db")
}
