package main

import (
	"fmt"

	"github.com/fwojciec/newsdigest"
	"github.com/fwojciec/newsdigest/crawl"
)

// Run executes the resummarize command.
func (c *ResummarizeCmd) Run(deps *Dependencies) error {
	filter := newsdigest.ArticleFilter{
		NoSummary: !c.All,
		Limit:     c.Limit,
	}
	if c.Category != "" {
		filter.Category = &c.Category
	}

	r := &crawl.Resummarizer{
		Articles:    deps.Articles,
		Summarizer:  deps.Summarizer,
		Concurrency: c.Concurrency,
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Summarizing %d articles\n", event.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, newsdigest.ErrorMessage(event.Error))
		}
	}

	report, err := r.Run(deps.Ctx, filter, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsdigest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Summarized %d articles, %d failed\n", report.Saved, report.Failed)
	return nil
}
