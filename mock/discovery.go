package mock

import (
	"context"

	"github.com/fwojciec/newsdigest"
)

var _ newsdigest.LinkSource = (*LinkSource)(nil)

// LinkSource is a mock implementation of newsdigest.LinkSource.
type LinkSource struct {
	DiscoverFn func(ctx context.Context) ([]newsdigest.Candidate, error)
}

func (s *LinkSource) Discover(ctx context.Context) ([]newsdigest.Candidate, error) {
	return s.DiscoverFn(ctx)
}

var _ newsdigest.SeenSet = (*SeenSet)(nil)

// SeenSet is a mock implementation of newsdigest.SeenSet.
type SeenSet struct {
	SeenFn func(url string) bool
}

func (s *SeenSet) Seen(url string) bool {
	return s.SeenFn(url)
}
