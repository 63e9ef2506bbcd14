package main_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fwojciec/newsdigest"
	main "github.com/fwojciec/newsdigest/cmd/newsdigest"
	"github.com/fwojciec/newsdigest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResummarizeCmd_Run(t *testing.T) {
	t.Parallel()

	stored := func() []*newsdigest.Article {
		one := &newsdigest.Article{ID: "a1", URL: "https://example.com/bangladesh/one", Category: "bangladesh"}
		one.SetBody("প্রথম বাক্য। দ্বিতীয় বাক্য।", 1)
		two := &newsdigest.Article{ID: "a2", URL: "https://example.com/world/two", Category: "world"}
		two.SetBody("তৃতীয় বাক্য।", 2)
		return []*newsdigest.Article{one, two}
	}

	t.Run("summarizes articles without a summary by default", func(t *testing.T) {
		t.Parallel()

		var (
			mu      sync.Mutex
			filter  newsdigest.ArticleFilter
			updated = map[string]string{}
		)
		articles := &mock.ArticleService{
			FindArticlesFn: func(_ context.Context, f newsdigest.ArticleFilter) ([]*newsdigest.Article, error) {
				filter = f
				return stored(), nil
			},
			UpdateArticleFn: func(_ context.Context, id string, upd newsdigest.ArticleUpdate) (*newsdigest.Article, error) {
				mu.Lock()
				defer mu.Unlock()
				updated[id] = *upd.Summary
				return &newsdigest.Article{ID: id, Summary: *upd.Summary}, nil
			},
		}
		summarizer := &mock.Summarizer{
			SummarizeFn: func(_ context.Context, text string) (*newsdigest.Summary, error) {
				return &newsdigest.Summary{Indices: []int{0}, Text: "সারাংশ"}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:        context.Background(),
			Stdout:     stdout,
			Stderr:     &bytes.Buffer{},
			Articles:   articles,
			Summarizer: summarizer,
		}

		cmd := &main.ResummarizeCmd{Category: "bangladesh", Concurrency: 2}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.True(t, filter.NoSummary)
		require.NotNil(t, filter.Category)
		assert.Equal(t, "bangladesh", *filter.Category)
		assert.Equal(t, map[string]string{"a1": "সারাংশ", "a2": "সারাংশ"}, updated)
		assert.Contains(t, stdout.String(), "Summarizing 2 articles")
		assert.Contains(t, stdout.String(), "Summarized 2 articles, 0 failed")
	})

	t.Run("includes summarized articles with --all", func(t *testing.T) {
		t.Parallel()

		var filter newsdigest.ArticleFilter
		articles := &mock.ArticleService{
			FindArticlesFn: func(_ context.Context, f newsdigest.ArticleFilter) ([]*newsdigest.Article, error) {
				filter = f
				return nil, nil
			},
		}

		deps := &main.Dependencies{
			Ctx:        context.Background(),
			Stdout:     &bytes.Buffer{},
			Stderr:     &bytes.Buffer{},
			Articles:   articles,
			Summarizer: &mock.Summarizer{},
		}

		cmd := &main.ResummarizeCmd{All: true, Limit: 3}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.False(t, filter.NoSummary)
		assert.Nil(t, filter.Category)
		assert.Equal(t, 3, filter.Limit)
	})

	t.Run("reports per-article failures", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(_ context.Context, _ newsdigest.ArticleFilter) ([]*newsdigest.Article, error) {
				return stored(), nil
			},
			UpdateArticleFn: func(_ context.Context, id string, upd newsdigest.ArticleUpdate) (*newsdigest.Article, error) {
				return &newsdigest.Article{ID: id, Summary: *upd.Summary}, nil
			},
		}
		summarizer := &mock.Summarizer{
			SummarizeFn: func(_ context.Context, text string) (*newsdigest.Summary, error) {
				if text == "তৃতীয় বাক্য।" {
					return nil, errors.New("embedding failed")
				}
				return &newsdigest.Summary{Text: "সারাংশ"}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:        context.Background(),
			Stdout:     stdout,
			Stderr:     stderr,
			Articles:   articles,
			Summarizer: summarizer,
		}

		cmd := &main.ResummarizeCmd{}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "skip https://example.com/world/two")
		assert.Contains(t, stdout.String(), "Summarized 1 articles, 1 failed")
	})

	t.Run("returns error when lookup fails", func(t *testing.T) {
		t.Parallel()

		articles := &mock.ArticleService{
			FindArticlesFn: func(_ context.Context, _ newsdigest.ArticleFilter) ([]*newsdigest.Article, error) {
				return nil, errors.New("database error")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:        context.Background(),
			Stdout:     &bytes.Buffer{},
			Stderr:     stderr,
			Articles:   articles,
			Summarizer: &mock.Summarizer{},
		}

		cmd := &main.ResummarizeCmd{}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "database error")
	})
}
