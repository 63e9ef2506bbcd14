package newsdigest

import "context"

// Fetcher retrieves raw payloads (HTML or JSON) from URLs.
// Implementations never retry; a failed fetch is terminal for the candidate.
type Fetcher interface {
	// Fetch retrieves the payload at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (string, error)

	// Close releases resources held by the fetcher.
	Close() error
}

// Pacer spaces out consecutive fetches.
type Pacer interface {
	// Wait blocks until the next fetch may start.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}
