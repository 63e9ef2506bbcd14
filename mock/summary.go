package mock

import (
	"context"

	"github.com/fwojciec/newsdigest"
)

var _ newsdigest.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of newsdigest.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedFn(ctx, texts)
}

var _ newsdigest.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of newsdigest.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (t *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return t.CountTokensFn(ctx, text)
}

var _ newsdigest.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of newsdigest.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, text string) (*newsdigest.Summary, error)
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (*newsdigest.Summary, error) {
	return s.SummarizeFn(ctx, text)
}
