package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fwojciec/newsdigest"
	"github.com/fwojciec/newsdigest/bloom"
	"github.com/fwojciec/newsdigest/centrality"
	"github.com/fwojciec/newsdigest/crawl"
	"github.com/fwojciec/newsdigest/fs"
	"github.com/fwojciec/newsdigest/gemini"
	ndfeed "github.com/fwojciec/newsdigest/gofeed"
	"github.com/fwojciec/newsdigest/goquery"
	"github.com/fwojciec/newsdigest/htmltomarkdown"
	ndhttp "github.com/fwojciec/newsdigest/http"
	"github.com/fwojciec/newsdigest/quintype"
	"github.com/fwojciec/newsdigest/readability"
	"github.com/fwojciec/newsdigest/rod"
	ndslog "github.com/fwojciec/newsdigest/slog"
	"github.com/fwojciec/newsdigest/trafilatura"
	"github.com/fwojciec/newsdigest/yaml"
	"google.golang.org/genai"
)

// loadSite returns the profile at path, or the built-in profile when path
// is empty. A positive limit overrides the profile limit.
func loadSite(path string, limit int) (newsdigest.Site, error) {
	site := newsdigest.DefaultSite()
	if path != "" {
		var err error
		if site, err = yaml.LoadSite(path); err != nil {
			return newsdigest.Site{}, err
		}
	}
	if limit > 0 {
		site.Limit = limit
	}
	return site, nil
}

// newFetcher returns a headless browser fetcher when c.Browser is set and
// a plain HTTP fetcher otherwise.
func newFetcher(c *FetchCmd) (newsdigest.Fetcher, error) {
	if c.Browser {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(c.Timeout))
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return ndhttp.NewFetcher(ndhttp.WithTimeout(c.Timeout)), nil
}

// newSource builds the discovery source named by c.Source. Sitemaps need the
// raw XML body, so with --browser they are read by a separate HTTP fetcher
// with the same timeout and logging.
func newSource(site newsdigest.Site, c *FetchCmd, fetcher newsdigest.Fetcher, logger *slog.Logger, filter *newsdigest.URLFilter) (newsdigest.LinkSource, error) {
	switch c.Source {
	case "", "html":
		return &goquery.HomepageSource{
			Fetcher:    fetcher,
			BaseURL:    site.BaseURL,
			Categories: site.Categories,
			Filter:     filter,
			Limit:      site.Limit,
		}, nil
	case "api":
		return &quintype.CollectionSource{
			Fetcher:    fetcher,
			APIBase:    site.APIBase,
			Collection: site.Collection,
			Filter:     filter,
			Limit:      site.Limit,
		}, nil
	case "sitemap":
		if c.Browser {
			fetcher = ndslog.NewLoggingFetcher(ndhttp.NewFetcher(ndhttp.WithTimeout(c.Timeout)), logger)
		}
		s := ndhttp.NewSitemapSource(fetcher, site.BaseURL)
		s.Categories = site.Categories
		s.Filter = filter
		s.Limit = site.Limit
		return s, nil
	case "feed":
		if site.FeedURL == "" {
			return nil, newsdigest.Errorf(newsdigest.EINVALID, "site %q has no feed URL", site.Name)
		}
		return &ndfeed.FeedSource{
			Fetcher:    fetcher,
			FeedURL:    site.FeedURL,
			Categories: site.Categories,
			Filter:     filter,
			Limit:      site.Limit,
		}, nil
	default:
		return nil, newsdigest.Errorf(newsdigest.EINVALID, "unknown source %q", c.Source)
	}
}

func newPacer(minDelay, maxDelay time.Duration) newsdigest.Pacer {
	return crawl.NewPacer(minDelay, maxDelay)
}

// newExtractor builds the page extractor. The canonical strategies always
// run first; extra appends the readability and trafilatura strategies.
func newExtractor(extra bool) *newsdigest.PageExtractor {
	strategies := goquery.DefaultStrategies()
	metadata := []newsdigest.MetadataExtractor{goquery.NewMetadataExtractor()}

	traf := trafilatura.NewStrategy()
	if extra {
		read := readability.NewStrategy()
		strategies = append(strategies, read, traf)
		metadata = append(metadata, read)
	}
	metadata = append(metadata, traf)

	return &newsdigest.PageExtractor{
		Cascade:  newsdigest.NewCascade(strategies...),
		Metadata: metadata,
		Story:    &quintype.StoryExtractor{Converter: htmltomarkdown.NewConverter()},
	}
}

func newDebugStore(dir string) newsdigest.DebugStore {
	return fs.NewDebugStore(dir)
}

// newSeenSet loads stored URLs into a Bloom filter backed by exact lookups.
func newSeenSet(ctx context.Context, articles newsdigest.ArticleService) (*bloom.SeenSet, error) {
	urls, err := articles.URLs(ctx)
	if err != nil {
		return nil, err
	}
	seen := bloom.NewSeenSet(urls, bloom.DefaultFalsePositiveRate)
	seen.Confirm = func(url string) bool {
		ok, err := articles.HasURL(ctx, url)
		return err == nil && ok
	}
	return seen, nil
}

// newSummarizer builds the summarizer selected by flags. The centrality
// summarizer needs GEMINI_API_KEY.
func newSummarizer(ctx context.Context, flags SummaryFlags, logger *slog.Logger, stderr io.Writer) (newsdigest.Summarizer, error) {
	if flags.SummaryMode == "lead" {
		return &newsdigest.LeadSummarizer{MaxWords: flags.LeadWords}, nil
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set. Use --summary-mode lead to summarize without embeddings")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	var opts []gemini.EmbedderOption
	if counter, err := gemini.NewTokenCounter(gemini.EmbeddingModel); err != nil {
		logger.Warn("token counter unavailable, long sentences are truncated by the API", "err", err)
	} else {
		opts = append(opts, gemini.WithTokenCounter(counter))
	}

	embedder := ndslog.NewLoggingEmbedder(gemini.NewEmbedder(client.Models, opts...), logger)
	return ndslog.NewLoggingSummarizer(&centrality.Summarizer{
		Embedder: embedder,
		K:        flags.K,
	}, logger), nil
}
