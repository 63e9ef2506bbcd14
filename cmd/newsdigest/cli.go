package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/newsdigest"
	"github.com/fwojciec/newsdigest/bloom"
	"github.com/fwojciec/newsdigest/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	DB       *sqlite.DB
	Articles newsdigest.ArticleService

	// Pipeline services, wired for fetch and watch.
	Source    newsdigest.LinkSource
	Fetcher   newsdigest.Fetcher
	Pacer     newsdigest.Pacer
	Extractor newsdigest.Extractor
	Debug     newsdigest.DebugStore

	// Seen, if set, learns the URLs stored by each run.
	Seen *bloom.SeenSet

	// Summarizer is wired when a command asks for summaries.
	Summarizer newsdigest.Summarizer

	// Now defaults to time.Now.
	Now func() time.Time
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"NEWSDIGEST_DB" help:"SQLite database path (default: ~/.newsdigest/newsdigest.db)"`
	Verbose bool   `short:"v" help:"Log every discovery, fetch, embedding and write"`

	Fetch       FetchCmd       `cmd:"" help:"Scrape articles from a news portal"`
	List        ListCmd        `cmd:"" help:"List stored articles"`
	Resummarize ResummarizeCmd `cmd:"" help:"Summarize stored articles"`
	Watch       WatchCmd       `cmd:"" help:"Scrape on a cron schedule"`
	Site        SiteCmd        `cmd:"" help:"Print a site profile as YAML"`
}

// SummaryFlags select and configure the summarizer.
type SummaryFlags struct {
	SummaryMode string `enum:"centrality,lead" default:"centrality" help:"Summary method: centrality (Gemini embeddings) or lead (leading words)"`
	K           int    `short:"k" default:"5" help:"Sentences per centrality summary"`
	LeadWords   int    `default:"60" help:"Words per lead summary"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	Site     string        `help:"YAML site profile (default: built-in Prothom Alo profile)"`
	Source   string        `enum:"html,api,sitemap,feed" default:"html" help:"Listing surface: html, api, sitemap or feed"`
	Limit    int           `short:"n" help:"Maximum number of articles (default: site profile limit)"`
	MinDelay time.Duration `default:"1s" help:"Minimum delay between fetches"`
	MaxDelay time.Duration `default:"5s" help:"Maximum delay between fetches"`
	Timeout  time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Out      string        `short:"o" help:"Also write rows to this CSV file"`
	Markdown string        `name:"markdown-dir" help:"Also export articles as markdown files under this directory"`
	Extra    bool          `help:"Append readability and trafilatura to the extraction cascade"`
	Browser  bool          `help:"Fetch with a headless browser (Chrome or Chromium)"`
	DebugDir string        `help:"Save raw payloads of short articles to this directory"`
	SkipSeen bool          `help:"Skip articles already stored in the database"`
	Preview  bool          `short:"p" help:"Print discovered articles without fetching them"`

	Summarize bool         `short:"s" help:"Add an extractive summary to every article"`
	Summary   SummaryFlags `embed:""`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Category  string `short:"c" help:"Only articles of this category"`
	NoSummary bool   `help:"Only articles without a summary"`
	Limit     int    `short:"n" default:"20" help:"Maximum number of articles (0 for all)"`
	CSV       bool   `name:"csv" help:"Write rows as CSV instead of a listing"`
}

// ResummarizeCmd is the "resummarize" subcommand.
type ResummarizeCmd struct {
	Category    string `short:"c" help:"Only articles of this category"`
	All         bool   `help:"Recompute existing summaries too"`
	Limit       int    `short:"n" help:"Maximum number of articles (default: all)"`
	Concurrency int    `default:"4" help:"Articles summarized in parallel"`

	Summary SummaryFlags `embed:""`
}

// WatchCmd is the "watch" subcommand.
type WatchCmd struct {
	Schedule    string `name:"cron" default:"@every 30m" help:"Cron schedule of scrape runs"`
	Immediately bool   `help:"Also scrape once at startup"`

	Fetch FetchCmd `embed:""`
}

// SiteCmd is the "site" subcommand.
type SiteCmd struct {
	Path string `arg:"" optional:"" help:"Profile to check and print (default: built-in Prothom Alo profile)"`
}
