// Package gofeed discovers article candidates from RSS and Atom feeds using
// github.com/mmcdole/gofeed.
package gofeed

import (
	"context"
	"net/url"

	"github.com/fwojciec/newsdigest"
	"github.com/mmcdole/gofeed"
)

var _ newsdigest.LinkSource = (*FeedSource)(nil)

// FeedSource discovers candidates from a portal's feed.
type FeedSource struct {
	Fetcher newsdigest.Fetcher

	FeedURL string

	// Categories map a link's first path segment to a candidate category
	// when the item itself carries none.
	Categories []string

	Filter *newsdigest.URLFilter
	Limit  int
}

// Discover fetches and parses the feed. Items are taken in feed order;
// relative links resolve against the feed URL.
func (s *FeedSource) Discover(ctx context.Context) ([]newsdigest.Candidate, error) {
	base, err := url.Parse(s.FeedURL)
	if err != nil || base.Host == "" {
		return nil, newsdigest.Errorf(newsdigest.EDISCOVERY, "invalid feed URL %q", s.FeedURL)
	}

	body, err := s.Fetcher.Fetch(ctx, s.FeedURL)
	if err != nil {
		return nil, newsdigest.Errorf(newsdigest.EDISCOVERY, "fetch feed: %v", err)
	}

	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, newsdigest.Errorf(newsdigest.EDISCOVERY, "parse feed: %v", err)
	}

	links := make([]newsdigest.Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		link := newsdigest.ResolveURL(base, item.Link)
		if link == "" {
			continue
		}
		links = append(links, newsdigest.Candidate{
			URL:      link,
			Category: s.category(item, link),
			Headline: newsdigest.CleanText(item.Title),
		})
	}
	return newsdigest.CollectCandidates(links, s.Filter, s.Limit), nil
}

// category prefers a configured category named by the item, then the
// link's first path segment.
func (s *FeedSource) category(item *gofeed.Item, link string) string {
	for _, c := range item.Categories {
		for _, known := range s.Categories {
			if c == known {
				return c
			}
		}
	}
	return newsdigest.CategoryFromPath(link, s.Categories)
}
