package goquery

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newsdigest"
)

var _ newsdigest.LinkSource = (*HomepageSource)(nil)

// HomepageSource discovers candidates from the category links of a portal
// homepage.
type HomepageSource struct {
	Fetcher newsdigest.Fetcher

	// BaseURL is the homepage; site-rooted hrefs resolve against it.
	BaseURL string

	// Categories are scanned in order. A link matching several categories
	// is attributed to the first.
	Categories []string

	Filter *newsdigest.URLFilter
	Limit  int
}

// Discover fetches the homepage and collects category links.
// Any fetch or parse error is a discovery failure.
func (s *HomepageSource) Discover(ctx context.Context) ([]newsdigest.Candidate, error) {
	base, err := url.Parse(s.BaseURL)
	if err != nil || base.Host == "" {
		return nil, newsdigest.Errorf(newsdigest.EDISCOVERY, "invalid base URL %q", s.BaseURL)
	}

	html, err := s.Fetcher.Fetch(ctx, s.BaseURL)
	if err != nil {
		return nil, newsdigest.Errorf(newsdigest.EDISCOVERY, "fetch homepage: %v", err)
	}

	links, err := CategoryLinks(html, base, s.Categories)
	if err != nil {
		return nil, err
	}
	return newsdigest.CollectCandidates(links, s.Filter, s.Limit), nil
}

// CategoryLinks returns every anchor whose href contains "/<category>/",
// scanning categories in order and anchors in document order.
// Links are not deduplicated.
func CategoryLinks(html string, base *url.URL, categories []string) ([]newsdigest.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, newsdigest.Errorf(newsdigest.EDISCOVERY, "failed to parse HTML: %v", err)
	}

	var links []newsdigest.Candidate
	for _, category := range categories {
		selector := fmt.Sprintf(`a[href*="/%s/"]`, category)
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok {
				return
			}
			resolved := newsdigest.ResolveURL(base, href)
			if resolved == "" {
				return
			}
			links = append(links, newsdigest.Candidate{
				URL:      resolved,
				Category: category,
				Headline: newsdigest.CleanText(sel.Text()),
			})
		})
	}
	return links, nil
}
