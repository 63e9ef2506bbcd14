package quintype

import (
	"context"
	"encoding/json"

	"github.com/fwojciec/newsdigest"
)

// DefaultPageSize is the number of collection items requested per listing.
const DefaultPageSize = 50

var _ newsdigest.LinkSource = (*CollectionSource)(nil)

// CollectionSource discovers candidates from a JSON collection listing.
// Candidate URLs are story API URLs and the category is the collection slug.
type CollectionSource struct {
	Fetcher newsdigest.Fetcher

	APIBase    string
	Collection string

	// PageSize defaults to DefaultPageSize or Limit, whichever is larger.
	PageSize int

	Filter *newsdigest.URLFilter
	Limit  int
}

// Discover fetches the collection and returns its stories.
// Items without an id are skipped; items without a headline get an empty one.
func (s *CollectionSource) Discover(ctx context.Context) ([]newsdigest.Candidate, error) {
	if s.APIBase == "" || s.Collection == "" {
		return nil, newsdigest.Errorf(newsdigest.EDISCOVERY, "collection API base and slug required")
	}

	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = max(DefaultPageSize, s.Limit)
	}

	payload, err := s.Fetcher.Fetch(ctx, CollectionURL(s.APIBase, s.Collection, pageSize))
	if err != nil {
		return nil, newsdigest.Errorf(newsdigest.EDISCOVERY, "fetch collection %s: %v", s.Collection, err)
	}

	var c collection
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return nil, newsdigest.Errorf(newsdigest.EDISCOVERY, "decode collection %s: %v", s.Collection, err)
	}

	links := make([]newsdigest.Candidate, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ID == "" {
			continue
		}
		links = append(links, newsdigest.Candidate{
			URL:      StoryURL(s.APIBase, string(item.ID)),
			Category: s.Collection,
			Headline: newsdigest.CleanText(string(item.Item.Headline)),
		})
	}
	return newsdigest.CollectCandidates(links, s.Filter, s.Limit), nil
}
