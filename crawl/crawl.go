// Package crawl runs the news collection pipeline: link discovery, paced
// fetching, extraction, optional summarization and row output.
package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/newsdigest"
)

// Pipeline processes the candidates of one listing, one article at a time.
// A discovery failure ends the run before anything is fetched. A fetch or
// write failure ends only the article concerned.
type Pipeline struct {
	Source    newsdigest.LinkSource
	Fetcher   newsdigest.Fetcher
	Pacer     newsdigest.Pacer
	Extractor newsdigest.Extractor
	Writer    newsdigest.ArticleWriter

	// Summarizer is optional. When set, every article with a body gets
	// a summary.
	Summarizer newsdigest.Summarizer

	// Debug is optional. It receives the raw payload of every article
	// whose content length is below newsdigest.DebugThreshold.
	Debug newsdigest.DebugStore

	// Now defaults to time.Now.
	Now func() time.Time
}

// Report holds the outcome of a pipeline run.
type Report struct {
	// Results has one entry per processed candidate, in discovery order.
	Results []newsdigest.Result

	Saved  int
	Failed int

	// Empty counts saved articles carrying the failure marker.
	Empty int

	// Bytes is the total size of saved bodies.
	Bytes int
}

// ProgressEvent reports progress during a pipeline run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	// ProgressWarning reports a degraded but saved article, such as a
	// summary that fell back to the full text.
	ProgressWarning
	ProgressFinished
)

// ProgressFunc is a callback for reporting pipeline progress.
type ProgressFunc func(event ProgressEvent)

// Run discovers candidates and processes them in discovery order.
// The progress callback, if provided, receives events as the run proceeds.
//
// Run returns a discovery failure as an error with no report. If ctx is
// canceled mid-run, the partial report is returned with the context error.
func (p *Pipeline) Run(ctx context.Context, progress ProgressFunc) (*Report, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}

	candidates, err := p.Source.Discover(ctx)
	if err != nil {
		if newsdigest.ErrorCode(err) == newsdigest.EINTERNAL {
			return nil, newsdigest.Errorf(newsdigest.EDISCOVERY, "link discovery: %v", err)
		}
		return nil, err
	}

	total := len(candidates)
	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	report := &Report{Results: make([]newsdigest.Result, 0, total)}
	for i, c := range candidates {
		if p.Pacer != nil {
			if err := p.Pacer.Wait(ctx); err != nil {
				return report, err
			}
		}

		res := p.process(ctx, c, now, func(err error) {
			progress(ProgressEvent{Type: ProgressWarning, Completed: i, Total: total, URL: c.URL, Error: err})
		})
		report.Results = append(report.Results, res)

		if res.Err != nil {
			report.Failed++
			progress(ProgressEvent{Type: ProgressFailed, Completed: i + 1, Total: total, URL: c.URL, Error: res.Err})
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			continue
		}

		report.Saved++
		report.Bytes += len(res.Article.Body)
		if res.Article.Failed() {
			report.Empty++
		}
		progress(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, Total: total, URL: c.URL})
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return report, nil
}

// process fetches, extracts, summarizes and writes a single candidate.
func (p *Pipeline) process(ctx context.Context, c newsdigest.Candidate, now func() time.Time, warn func(error)) newsdigest.Result {
	res := newsdigest.Result{Candidate: c}

	payload, err := p.Fetcher.Fetch(ctx, c.URL)
	if err != nil {
		res.Err = newsdigest.Errorf(newsdigest.EFETCH, "fetch %s: %v", c.URL, err)
		return res
	}

	page := newsdigest.NewFetchedPage(c, payload)
	a := p.Extractor.Extract(page)
	a.FetchedAt = now()
	a.ContentHash = ComputeHash(a.Body)

	if p.Debug != nil && a.ContentLength < newsdigest.DebugThreshold {
		if err := p.Debug.Save(ctx, page); err != nil {
			warn(fmt.Errorf("save debug payload: %w", err))
		}
	}

	if p.Summarizer != nil && !a.Failed() {
		summary, err := p.Summarizer.Summarize(ctx, a.Body)
		if err != nil {
			warn(newsdigest.Errorf(newsdigest.EEMBED, "summarize: %v", err))
			a.Summary = newsdigest.CleanText(a.Body)
		} else {
			a.Summary = summary.Text
		}
	}

	if err := p.Writer.WriteArticle(ctx, a); err != nil {
		res.Err = fmt.Errorf("write article: %w", err)
		return res
	}

	res.Article = a
	return res
}
