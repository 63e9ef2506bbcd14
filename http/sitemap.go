package http

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/newsdigest"
)

// Ensure SitemapSource implements newsdigest.LinkSource.
var _ newsdigest.LinkSource = (*SitemapSource)(nil)

// SitemapSource discovers candidates from a portal's sitemaps. News
// sitemaps are preferred by portals for recent stories, and their
// news:title becomes the candidate headline.
//
// robots.txt and the sitemaps are read through a newsdigest.Fetcher, so they
// carry the same headers, timeout and logging as article fetches. The fetcher
// must return the raw body; a browser fetcher returns its XML viewer instead.
type SitemapSource struct {
	fetcher newsdigest.Fetcher

	// BaseURL is the portal root used to locate robots.txt.
	BaseURL string

	// SitemapURL, if set, is read directly instead of searching robots.txt.
	SitemapURL string

	// Categories map a URL's first path segment to a candidate category.
	Categories []string

	Filter *newsdigest.URLFilter
	Limit  int
}

// NewSitemapSource creates a new SitemapSource reading through fetcher.
// If fetcher is nil, a Fetcher with the default headers and timeout is used.
func NewSitemapSource(fetcher newsdigest.Fetcher, baseURL string) *SitemapSource {
	if fetcher == nil {
		fetcher = NewFetcher()
	}
	return &SitemapSource{fetcher: fetcher, BaseURL: baseURL}
}

// sitemapEntry is one <url> of a urlset.
type sitemapEntry struct {
	loc   string
	title string
}

// Discover reads the sitemaps and returns their article URLs in document
// order. Any network or parse error is a discovery failure.
func (s *SitemapSource) Discover(ctx context.Context) ([]newsdigest.Candidate, error) {
	entries, err := s.entries(ctx)
	if err != nil {
		return nil, newsdigest.Errorf(newsdigest.EDISCOVERY, "sitemap: %v", err)
	}

	links := make([]newsdigest.Candidate, 0, len(entries))
	for _, e := range entries {
		links = append(links, newsdigest.Candidate{
			URL:      e.loc,
			Category: newsdigest.CategoryFromPath(e.loc, s.Categories),
			Headline: newsdigest.CleanText(e.title),
		})
	}
	return newsdigest.CollectCandidates(links, s.Filter, s.Limit), nil
}

func (s *SitemapSource) entries(ctx context.Context) ([]sitemapEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sitemapURLs []string
	var assumed bool
	if s.SitemapURL != "" {
		sitemapURLs = []string{s.SitemapURL}
	} else {
		base, err := url.Parse(s.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		base.Path = ""
		sitemapURLs, assumed = s.findSitemapURLs(ctx, base)
	}

	var all []sitemapEntry
	seen := make(map[string]bool)
	for _, sitemapURL := range sitemapURLs {
		entries, err := s.processSitemap(ctx, sitemapURL, seen)
		if err != nil {
			if assumed && ctx.Err() == nil {
				return nil, fmt.Errorf("no sitemap found for %s: %w", s.BaseURL, err)
			}
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

// findSitemapURLs returns the sitemaps listed in robots.txt. The bool
// reports whether robots.txt listed none and /sitemap.xml is assumed.
func (s *SitemapSource) findSitemapURLs(ctx context.Context, base *url.URL) ([]string, bool) {
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})
	sitemaps, err := s.parseSitemapsFromRobots(ctx, robotsURL.String())
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, false
	}

	sitemapURL := base.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	return []string{sitemapURL.String()}, true
}

// parseSitemapsFromRobots extracts Sitemap: directives from robots.txt.
func (s *SitemapSource) parseSitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.fetcher.Fetch(ctx, robotsURL)
	if err != nil {
		return nil, err
	}

	var sitemaps []string
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			sitemapURL := strings.TrimSpace(line[8:]) // len("sitemap:") == 8
			if sitemapURL != "" {
				sitemaps = append(sitemaps, sitemapURL)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}

	return sitemaps, nil
}

// processSitemap fetches and parses a sitemap, handling both urlset and sitemapindex.
func (s *SitemapSource) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]sitemapEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML")
	}

	if root.Tag == "sitemapindex" {
		return s.processSitemapIndex(ctx, root, seen)
	}

	return parseURLSet(root), nil
}

// processSitemapIndex processes a <sitemapindex> element recursively.
func (s *SitemapSource) processSitemapIndex(ctx context.Context, root *etree.Element, seen map[string]bool) ([]sitemapEntry, error) {
	var all []sitemapEntry

	for _, sitemap := range root.SelectElements("sitemap") {
		loc := sitemap.SelectElement("loc")
		if loc == nil {
			continue
		}
		sitemapURL := strings.TrimSpace(loc.Text())
		if sitemapURL == "" {
			continue
		}

		entries, err := s.processSitemap(ctx, sitemapURL, seen)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}

	return all, nil
}

// parseURLSet extracts entries from a <urlset> element, reading the
// news:title of Google News sitemaps when present.
func parseURLSet(root *etree.Element) []sitemapEntry {
	var entries []sitemapEntry
	for _, urlEl := range root.SelectElements("url") {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		e := sitemapEntry{loc: strings.TrimSpace(loc.Text())}
		if e.loc == "" {
			continue
		}
		if news := urlEl.SelectElement("news"); news != nil {
			if title := news.SelectElement("title"); title != nil {
				e.title = title.Text()
			}
		}
		entries = append(entries, e)
	}
	return entries
}
