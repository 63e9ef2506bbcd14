package newsdigest

import (
	"strings"
)

// Sentence is one unit of segmented article text.
// Index is its position in the segmented sequence and is the only key used
// to order sentences in a summary.
type Sentence struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// isSentenceFinal reports whether r ends a sentence. The Bengali danda and
// double danda are handled alongside Latin terminal punctuation.
func isSentenceFinal(r rune) bool {
	switch r {
	case '।', '॥', '.', '!', '?':
		return true
	}
	return false
}

// CleanText collapses runs of whitespace into single spaces and trims.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitSentences cleans text and splits it on sentence-final punctuation.
// Fragments that are empty after trimming are dropped. The split is
// heuristic: abbreviations and decimals are not special-cased.
func SplitSentences(text string) []Sentence {
	fragments := strings.FieldsFunc(CleanText(text), isSentenceFinal)

	sentences := make([]Sentence, 0, len(fragments))
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		sentences = append(sentences, Sentence{Text: f, Index: len(sentences)})
	}
	return sentences
}
