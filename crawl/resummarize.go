package crawl

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/newsdigest"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of articles summarized at once by a
// Resummarizer.
const DefaultConcurrency = 4

// Resummarizer computes summaries for stored articles. It never fetches,
// so it may run concurrently without affecting politeness.
type Resummarizer struct {
	Articles   newsdigest.ArticleService
	Summarizer newsdigest.Summarizer

	// Concurrency defaults to DefaultConcurrency.
	Concurrency int
}

// Run summarizes every stored article matching filter and stores the
// summaries. Articles carrying the failure marker are skipped. A failure
// for one article is reported through progress and does not stop the
// others; only a failed lookup or a canceled context fails the run.
func (r *Resummarizer) Run(ctx context.Context, filter newsdigest.ArticleFilter, progress ProgressFunc) (*Report, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	articles, err := r.Articles.FindArticles(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}

	var todo []*newsdigest.Article
	for _, a := range articles {
		if !a.Failed() {
			todo = append(todo, a)
		}
	}

	total := len(todo)
	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]newsdigest.Result, total)
	var (
		mu        sync.Mutex
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, a := range todo {
		g.Go(func() error {
			res := r.summarize(gctx, a)
			results[i] = res

			mu.Lock()
			defer mu.Unlock()
			completed++
			if res.Err != nil {
				progress(ProgressEvent{Type: ProgressFailed, Completed: completed, Total: total, URL: a.URL, Error: res.Err})
			} else {
				progress(ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, URL: a.URL})
			}
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{Results: results}
	for _, res := range results {
		if res.Err != nil {
			report.Failed++
			continue
		}
		report.Saved++
		report.Bytes += len(res.Article.Summary)
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return report, nil
}

func (r *Resummarizer) summarize(ctx context.Context, a *newsdigest.Article) newsdigest.Result {
	res := newsdigest.Result{Candidate: newsdigest.Candidate{URL: a.URL, Category: a.Category}}

	summary, err := r.Summarizer.Summarize(ctx, a.Body)
	if err != nil {
		res.Err = newsdigest.Errorf(newsdigest.EEMBED, "summarize %s: %v", a.URL, err)
		return res
	}

	updated, err := r.Articles.UpdateArticle(ctx, a.ID, newsdigest.ArticleUpdate{Summary: &summary.Text})
	if err != nil {
		res.Err = fmt.Errorf("update article %s: %w", a.ID, err)
		return res
	}

	res.Article = updated
	return res
}
