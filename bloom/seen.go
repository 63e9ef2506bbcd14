// Package bloom remembers the article URLs stored by earlier runs in a
// Bloom filter.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/newsdigest"
)

// DefaultFalsePositiveRate is the filter error rate used by NewSeenSet
// when none is given.
const DefaultFalsePositiveRate = 0.001

// minCapacity keeps the filter usable when few URLs are stored yet.
const minCapacity = 1024

// Ensure SeenSet implements newsdigest.SeenSet at compile time.
var _ newsdigest.SeenSet = (*SeenSet)(nil)

// SeenSet reports URLs stored by earlier runs. The Bloom filter answers
// most lookups; a filter hit is confirmed with Confirm when set, so a
// false positive never drops an unseen article.
//
// SeenSet is safe for concurrent use.
type SeenSet struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter

	// Confirm performs an exact lookup for URLs the filter may contain.
	Confirm func(url string) bool
}

// NewSeenSet creates a SeenSet holding urls. Capacity is sized for twice
// the stored URLs so that articles saved by later runs in the same process
// fit without raising the error rate.
func NewSeenSet(urls []string, fpRate float64) *SeenSet {
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultFalsePositiveRate
	}
	s := &SeenSet{
		filter: bloom.NewWithEstimates(max(uint(2*len(urls)), minCapacity), fpRate),
	}
	for _, u := range urls {
		s.filter.AddString(u)
	}
	return s
}

// Add records a URL as seen.
func (s *SeenSet) Add(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.AddString(url)
}

// Seen reports whether url was stored before.
func (s *SeenSet) Seen(url string) bool {
	s.mu.RLock()
	hit := s.filter.TestString(url)
	s.mu.RUnlock()

	if !hit {
		return false
	}
	if s.Confirm == nil {
		return true
	}
	return s.Confirm(url)
}

// Len returns the approximate number of URLs in the set.
func (s *SeenSet) Len() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint(s.filter.ApproximatedSize())
}
