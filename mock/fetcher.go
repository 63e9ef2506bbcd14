package mock

import (
	"context"

	"github.com/fwojciec/newsdigest"
)

var _ newsdigest.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of newsdigest.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ newsdigest.Pacer = (*Pacer)(nil)

// Pacer is a mock implementation of newsdigest.Pacer.
type Pacer struct {
	WaitFn func(ctx context.Context) error
}

func (p *Pacer) Wait(ctx context.Context) error {
	return p.WaitFn(ctx)
}
