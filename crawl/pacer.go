package crawl

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/fwojciec/newsdigest"
	"golang.org/x/time/rate"
)

// Default politeness delays between consecutive fetches.
const (
	DefaultMinDelay = 1 * time.Second
	DefaultMaxDelay = 5 * time.Second
)

var _ newsdigest.Pacer = (*Pacer)(nil)

// Pacer spaces out fetches to the same portal. Every wait sleeps a uniformly
// random duration in [min, max], so the first article fetch also keeps its
// distance from the listing fetch that preceded it. A token bucket shared by
// all callers additionally caps the aggregate rate at one fetch per min,
// so concurrent callers cannot add up to a burst.
//
// Pacer is safe for concurrent use.
type Pacer struct {
	min, max time.Duration
	limiter  *rate.Limiter
}

// NewPacer creates a Pacer. A max below min is raised to min. A zero min
// disables the aggregate cap.
func NewPacer(minDelay, maxDelay time.Duration) *Pacer {
	minDelay = max(minDelay, 0)
	maxDelay = max(maxDelay, minDelay)

	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &Pacer{
		min:     minDelay,
		max:     maxDelay,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until the next fetch may start.
// Returns an error if the context is canceled before the wait completes.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := sleep(ctx, p.delay()); err != nil {
		return err
	}
	return p.limiter.Wait(ctx)
}

// delay returns a uniformly random duration in [min, max].
func (p *Pacer) delay() time.Duration {
	span := int64(p.max - p.min)
	if span <= 0 {
		return p.min
	}
	return p.min + time.Duration(rand.Int64N(span+1))
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
