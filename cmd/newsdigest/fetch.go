package main

import (
	"fmt"

	"github.com/fwojciec/newsdigest"
	"github.com/fwojciec/newsdigest/crawl"
	"github.com/fwojciec/newsdigest/csv"
	"github.com/fwojciec/newsdigest/fs"
	ndslog "github.com/fwojciec/newsdigest/slog"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	// Preview mode: show candidates without fetching them
	if c.Preview {
		return c.runPreview(deps)
	}
	_, err := c.runFetch(deps, false)
	return err
}

func (c *FetchCmd) runPreview(deps *Dependencies) error {
	candidates, err := deps.Source.Discover(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsdigest.ErrorMessage(err))
		return err
	}

	for _, cand := range candidates {
		fmt.Fprintf(deps.Stdout, "%3d  %-14s %s\n", cand.Rank, cand.Category, cand.URL)
	}
	return nil
}

// runFetch runs the pipeline once. With appendOut set, rows are added to an
// existing --out file instead of replacing it, so scheduled runs accumulate.
func (c *FetchCmd) runFetch(deps *Dependencies, appendOut bool) (report *crawl.Report, err error) {
	var writers []newsdigest.ArticleWriter
	if deps.Articles != nil {
		writers = append(writers, deps.Articles)
	}
	if c.Out != "" {
		open := csv.Create
		if appendOut {
			open = csv.Append
		}
		w, oerr := open(c.Out, c.Summarize)
		if oerr != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", oerr)
			return nil, oerr
		}
		defer func() {
			if cerr := w.Close(); cerr != nil && err == nil {
				fmt.Fprintf(deps.Stderr, "error: closing %s: %v\n", c.Out, cerr)
				err = cerr
			}
		}()
		writers = append(writers, w)
	}
	if c.Markdown != "" {
		writers = append(writers, fs.NewWriter(c.Markdown))
	}
	if len(writers) == 0 {
		return nil, newsdigest.Errorf(newsdigest.EINVALID, "no output configured")
	}

	var writer newsdigest.ArticleWriter = newsdigest.MultiWriter(writers...)
	if deps.Logger != nil {
		writer = ndslog.NewLoggingArticleWriter(writer, deps.Logger)
	}

	pipeline := &crawl.Pipeline{
		Source:    deps.Source,
		Fetcher:   deps.Fetcher,
		Pacer:     deps.Pacer,
		Extractor: deps.Extractor,
		Writer:    writer,
		Debug:     deps.Debug,
		Now:       deps.Now,
	}
	if c.Summarize {
		pipeline.Summarizer = deps.Summarizer
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d articles\n", event.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s\n", event.Completed, event.Total, crawl.TruncateURL(event.URL, 60))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.URL, event.Error)
		case crawl.ProgressWarning:
			fmt.Fprintf(deps.Stderr, "  warn %s: %s\n", event.URL, newsdigest.ErrorMessage(event.Error))
		case crawl.ProgressFinished:
			// Summary printed after the run completes
		}
	}

	report, err = pipeline.Run(deps.Ctx, progress)
	if report != nil {
		c.remember(deps, report)
		fmt.Fprintf(deps.Stdout, "Saved %d articles (%s), %d without content, %d failed\n",
			report.Saved, crawl.FormatBytes(report.Bytes), report.Empty, report.Failed)
		if c.Out != "" {
			fmt.Fprintf(deps.Stdout, "Rows written to %s\n", c.Out)
		}
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsdigest.ErrorMessage(err))
		return report, err
	}
	return report, nil
}

// remember adds the URLs saved by a run to the seen set so that later runs
// in the same process skip them too.
func (c *FetchCmd) remember(deps *Dependencies, report *crawl.Report) {
	if deps.Seen == nil {
		return
	}
	for _, res := range report.Results {
		if res.OK() {
			deps.Seen.Add(res.Candidate.URL)
		}
	}
}
