package newsdigest

import (
	"strings"
	"unicode/utf8"
)

// DefaultMinLength is the trimmed rune length a strategy result needs to be
// accepted without trying the remaining strategies.
const DefaultMinLength = 200

// ParagraphSeparator joins the text units a strategy extracts.
const ParagraphSeparator = "\n\n"

// Strategy is one content-extraction heuristic. Extract returns the body
// text it finds, or an empty string when it finds nothing. Strategies are
// independent: each works from the raw page, whatever earlier ones found.
type Strategy interface {
	Name() string
	Extract(page *FetchedPage) string
}

// CascadeResult is the body chosen by a Cascade.
type CascadeResult struct {
	Text string

	// Strategy is the 1-based position of the accepted strategy,
	// or StrategyNone when every strategy came back empty.
	Strategy int

	// Name is the accepted strategy's name.
	Name string
}

// Cascade evaluates strategies in priority order and accepts the first
// result whose trimmed length reaches MinLength.
//
// When no strategy reaches the threshold, the non-empty result of the
// lowest-priority strategy that produced one is accepted, even though it
// is short. When every strategy is empty, the result is empty and
// Strategy is StrategyNone.
type Cascade struct {
	Strategies []Strategy

	// MinLength defaults to DefaultMinLength when zero.
	MinLength int
}

// NewCascade returns a cascade over strategies with the default threshold.
func NewCascade(strategies ...Strategy) *Cascade {
	return &Cascade{Strategies: strategies, MinLength: DefaultMinLength}
}

// Run applies the cascade to page.
func (c *Cascade) Run(page *FetchedPage) CascadeResult {
	minLength := c.MinLength
	if minLength <= 0 {
		minLength = DefaultMinLength
	}

	var fallback CascadeResult
	for i, s := range c.Strategies {
		text := strings.TrimSpace(s.Extract(page))
		if text == "" {
			continue
		}

		res := CascadeResult{Text: text, Strategy: i + 1, Name: s.Name()}
		if utf8.RuneCountInString(text) >= minLength {
			return res
		}
		fallback = res
	}
	return fallback
}

// JoinParagraphs trims each unit, drops empty ones and joins the rest with
// ParagraphSeparator.
func JoinParagraphs(units []string) string {
	kept := make([]string, 0, len(units))
	for _, u := range units {
		if u = strings.TrimSpace(u); u != "" {
			kept = append(kept, u)
		}
	}
	return strings.Join(kept, ParagraphSeparator)
}
