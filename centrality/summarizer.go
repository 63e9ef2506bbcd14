package centrality

import (
	"context"
	"strings"

	"github.com/fwojciec/newsdigest"
)

// DefaultK is the default number of sentences in a summary.
const DefaultK = 5

// Danda is the Bengali full stop used to rejoin selected sentences.
const Danda = "।"

var _ newsdigest.Summarizer = (*Summarizer)(nil)

// Summarizer selects the K most central sentences of a text.
type Summarizer struct {
	Embedder newsdigest.Embedder

	// K defaults to DefaultK.
	K int

	// Terminator ends every selected sentence. Defaults to Danda.
	Terminator string
}

// Summarize returns the most central sentences in their original order,
// each followed by the terminator and joined with single spaces.
//
// Texts with no more than K sentences are returned cleaned but otherwise
// unchanged, without consulting the embedder. An embedder failure is
// returned as EEMBED.
func (s *Summarizer) Summarize(ctx context.Context, text string) (*newsdigest.Summary, error) {
	k := s.K
	if k <= 0 {
		k = DefaultK
	}
	term := s.Terminator
	if term == "" {
		term = Danda
	}

	clean := newsdigest.CleanText(text)
	sentences := newsdigest.SplitSentences(clean)
	if len(sentences) <= k {
		indices := make([]int, len(sentences))
		for i := range indices {
			indices[i] = i
		}
		return &newsdigest.Summary{Indices: indices, Text: clean}, nil
	}

	texts := make([]string, len(sentences))
	for i, sent := range sentences {
		texts[i] = sent.Text
	}

	vectors, err := s.Embedder.Embed(ctx, texts)
	if err != nil {
		return nil, newsdigest.Errorf(newsdigest.EEMBED, "embed %d sentences: %v", len(texts), err)
	}
	if len(vectors) != len(texts) {
		return nil, newsdigest.Errorf(newsdigest.EEMBED, "embedder returned %d vectors for %d sentences", len(vectors), len(texts))
	}

	indices := Rank(vectors, k)
	selected := make([]string, len(indices))
	for i, idx := range indices {
		selected[i] = sentences[idx].Text
	}

	return &newsdigest.Summary{
		Indices: indices,
		Text:    strings.Join(selected, term+" ") + term,
	}, nil
}
