package newsdigest

import (
	"context"
	"strings"
)

// Embedding is the vector of one sentence.
type Embedding struct {
	SentenceIndex int       `json:"sentenceIndex"`
	Vector        []float32 `json:"vector"`
}

// Embedder maps text units to fixed-size vectors using a pretrained
// multilingual model in inference-only mode. The output for a given text
// is deterministic for a fixed model. Inputs longer than the model limit
// are truncated rather than rejected.
type Embedder interface {
	// Embed returns one vector per text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// Summary is an extractive summary of an article body.
type Summary struct {
	// Indices of the selected sentences, ascending.
	Indices []int `json:"indices"`

	// Text is the selected sentences joined in ascending index order.
	Text string `json:"text"`
}

// Summarizer produces a summary of an article body.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (*Summary, error)
}

// DefaultLeadWords is the default length of a lead summary.
const DefaultLeadWords = 60

// LeadSummary returns the first maxWords words of text followed by "...",
// or the whole cleaned text when it is not longer than maxWords.
func LeadSummary(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// Ensure LeadSummarizer implements Summarizer at compile time.
var _ Summarizer = (*LeadSummarizer)(nil)

// LeadSummarizer summarizes by truncating to the leading words.
// It selects no sentences, so Summary.Indices is always empty.
type LeadSummarizer struct {
	MaxWords int
}

// Summarize returns the lead of text.
func (s *LeadSummarizer) Summarize(_ context.Context, text string) (*Summary, error) {
	n := s.MaxWords
	if n <= 0 {
		n = DefaultLeadWords
	}
	return &Summary{Text: LeadSummary(text, n)}, nil
}
