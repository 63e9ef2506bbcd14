package gemini

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/fwojciec/newsdigest"
	"google.golang.org/genai"
)

// Defaults for an Embedder.
const (
	// DefaultMaxTokens is the input limit of the embedding model.
	DefaultMaxTokens = 2048

	// DefaultBatchSize is the largest number of texts per API request.
	DefaultBatchSize = 100

	// TaskSemanticSimilarity optimizes vectors for comparing texts.
	TaskSemanticSimilarity = "SEMANTIC_SIMILARITY"
)

// ContentEmbedder is the subset of *genai.Models used by Embedder.
type ContentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Ensure Embedder implements newsdigest.Embedder at compile time.
var _ newsdigest.Embedder = (*Embedder)(nil)

// Embedder implements newsdigest.Embedder using the Gemini embedding API.
// The model runs in inference mode only; vectors for a given text are
// stable for a fixed model.
type Embedder struct {
	models    ContentEmbedder
	model     string
	taskType  string
	maxTokens int
	batchSize int
	counter   newsdigest.TokenCounter
}

// EmbedderOption configures an Embedder.
type EmbedderOption func(*Embedder)

// WithModel sets the embedding model. Defaults to EmbeddingModel.
func WithModel(model string) EmbedderOption {
	return func(e *Embedder) {
		e.model = model
	}
}

// WithTokenLimit truncates inputs longer than maxTokens as counted by
// counter. Without a counter inputs are sent as is and the API truncates.
func WithTokenLimit(counter newsdigest.TokenCounter, maxTokens int) EmbedderOption {
	return func(e *Embedder) {
		e.counter = counter
		e.maxTokens = maxTokens
	}
}

// WithTokenCounter truncates inputs to the limit of the counter's embedding
// model and embeds with that model.
func WithTokenCounter(tc *TokenCounter) EmbedderOption {
	return func(e *Embedder) {
		e.model = tc.Model()
		e.counter = tc
		e.maxTokens = tc.MaxTokens()
	}
}

// WithBatchSize sets the number of texts per request.
// Defaults to DefaultBatchSize.
func WithBatchSize(n int) EmbedderOption {
	return func(e *Embedder) {
		e.batchSize = n
	}
}

// NewEmbedder creates a new Embedder. Pass client.Models of a *genai.Client.
func NewEmbedder(models ContentEmbedder, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		models:    models,
		model:     EmbeddingModel,
		taskType:  TaskSemanticSimilarity,
		maxTokens: DefaultMaxTokens,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.batchSize <= 0 {
		e.batchSize = DefaultBatchSize
	}
	return e
}

// Embed returns one vector per text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		text, err := e.truncate(ctx, text)
		if err != nil {
			return nil, err
		}
		contents[i] = genai.NewContentFromText(text, "user")
	}

	config := &genai.EmbedContentConfig{TaskType: e.taskType}
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(contents); start += e.batchSize {
		batch := contents[start:min(start+e.batchSize, len(contents))]

		resp, err := e.models.EmbedContent(ctx, e.model, batch, config)
		if err != nil {
			return nil, fmt.Errorf("embed content: %w", err)
		}
		if resp == nil || len(resp.Embeddings) != len(batch) {
			return nil, newsdigest.Errorf(newsdigest.EEMBED, "gemini returned %d embeddings for %d texts", embeddingCount(resp), len(batch))
		}
		for _, emb := range resp.Embeddings {
			if emb == nil {
				vectors = append(vectors, nil)
				continue
			}
			vectors = append(vectors, emb.Values)
		}
	}
	return vectors, nil
}

func embeddingCount(resp *genai.EmbedContentResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Embeddings)
}

// maxTruncateRounds bounds the shrink-and-recount loop.
const maxTruncateRounds = 4

// truncate shortens text until it fits the token limit. Each round keeps a
// rune prefix proportional to the overshoot.
func (e *Embedder) truncate(ctx context.Context, text string) (string, error) {
	if e.counter == nil || e.maxTokens <= 0 {
		return text, nil
	}
	for range maxTruncateRounds {
		n, err := e.counter.CountTokens(ctx, text)
		if err != nil {
			return "", fmt.Errorf("count tokens: %w", err)
		}
		if n <= e.maxTokens {
			return text, nil
		}
		runes := []rune(text)
		keep := len(runes) * e.maxTokens / n
		// Leave headroom so the next count usually fits.
		keep = keep * 9 / 10
		text = string(runes[:keep])
	}
	// Fall back to one rune per token, which never exceeds the limit.
	if utf8.RuneCountInString(text) > e.maxTokens {
		text = string([]rune(text)[:e.maxTokens])
	}
	return text, nil
}
