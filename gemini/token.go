package gemini

import (
	"context"

	"github.com/fwojciec/newsdigest"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ newsdigest.TokenCounter = (*TokenCounter)(nil)

// embeddingTokenizer pairs an embedding model with the generation model whose
// local tokenizer approximates it, and the embedding model's input limit.
type embeddingTokenizer struct {
	tokenizer string
	maxTokens int
}

// embeddingTokenizers lists the embedding models a TokenCounter can measure
// for. The embedding models have no local tokenizer of their own.
var embeddingTokenizers = map[string]embeddingTokenizer{
	"gemini-embedding-001": {tokenizer: "gemini-2.0-flash", maxTokens: DefaultMaxTokens},
	"text-embedding-004":   {tokenizer: "gemini-1.5-flash", maxTokens: DefaultMaxTokens},
}

// TokenCounter measures sentences against the input limit of an embedding
// model, counting locally so no request is spent on it.
type TokenCounter struct {
	tok       *tokenizer.LocalTokenizer
	model     string
	maxTokens int
}

// NewTokenCounter creates a TokenCounter for the given embedding model.
// Returns EINVALID for a model without a known tokenizer.
func NewTokenCounter(embeddingModel string) (*TokenCounter, error) {
	et, ok := embeddingTokenizers[embeddingModel]
	if !ok {
		return nil, newsdigest.Errorf(newsdigest.EINVALID, "no tokenizer for embedding model %q", embeddingModel)
	}
	tok, err := tokenizer.NewLocalTokenizer(et.tokenizer)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{tok: tok, model: embeddingModel, maxTokens: et.maxTokens}, nil
}

// Model returns the embedding model the counter measures for.
func (tc *TokenCounter) Model() string { return tc.model }

// MaxTokens returns the input limit of the embedding model.
func (tc *TokenCounter) MaxTokens() int { return tc.maxTokens }

// CountTokens counts the tokens the embedding model sees for text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := tc.tok.CountTokens(contents, nil)
	if err != nil {
		return 0, err
	}

	return int(result.TotalTokens), nil
}

// Fits reports whether text is within the embedding model's input limit.
func (tc *TokenCounter) Fits(ctx context.Context, text string) (bool, error) {
	n, err := tc.CountTokens(ctx, text)
	if err != nil {
		return false, err
	}
	return n <= tc.maxTokens, nil
}
