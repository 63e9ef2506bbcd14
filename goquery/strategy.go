package goquery

import (
	"strings"

	"github.com/fwojciec/newsdigest"
)

// DefaultStrategies returns the canonical body strategies in priority order.
func DefaultStrategies() []newsdigest.Strategy {
	return []newsdigest.Strategy{
		&PrimaryContainer{},
		&TextBlocks{},
		&ArticleContainer{},
		&PageParagraphs{},
	}
}

// primaryContainerSelectors are tried in order; the first match is the
// story container.
var primaryContainerSelectors = []string{
	`div[data-nt="storyPageDetailMainBlock"]`,
	`div.story-element`,
	`article`,
	`div[itemprop="articleBody"]`,
}

var _ newsdigest.Strategy = (*PrimaryContainer)(nil)

// PrimaryContainer reads the paragraphs of the story's main container.
type PrimaryContainer struct{}

// Name returns the strategy's identifier.
func (s *PrimaryContainer) Name() string { return "primary-container" }

// Extract returns the non-empty paragraphs of the first matching container.
func (s *PrimaryContainer) Extract(page *newsdigest.FetchedPage) string {
	doc := parse(page)
	if doc == nil {
		return ""
	}
	container := firstMatch(doc, primaryContainerSelectors...)
	if container == nil {
		return ""
	}
	return newsdigest.JoinParagraphs(paragraphs(container.Find("p"), 0, nil))
}

var _ newsdigest.Strategy = (*TextBlocks)(nil)

// TextBlocks reads story text blocks wherever they appear on the page.
type TextBlocks struct{}

// Name returns the strategy's identifier.
func (s *TextBlocks) Name() string { return "text-blocks" }

// Extract returns the text of every .story-element-text block.
func (s *TextBlocks) Extract(page *newsdigest.FetchedPage) string {
	doc := parse(page)
	if doc == nil {
		return ""
	}
	return newsdigest.JoinParagraphs(paragraphs(doc.Find(".story-element-text"), 0, nil))
}

// articleParagraphMin is the length a paragraph inside article or main must
// exceed. Shorter ones are usually navigation or captions.
const articleParagraphMin = 30

var _ newsdigest.Strategy = (*ArticleContainer)(nil)

// ArticleContainer reads substantial paragraphs of the article or main element.
type ArticleContainer struct{}

// Name returns the strategy's identifier.
func (s *ArticleContainer) Name() string { return "article-container" }

// Extract returns paragraphs longer than 30 characters inside the first
// article element, or main when there is none.
func (s *ArticleContainer) Extract(page *newsdigest.FetchedPage) string {
	doc := parse(page)
	if doc == nil {
		return ""
	}
	container := firstMatch(doc, "article", "main")
	if container == nil {
		return ""
	}
	return newsdigest.JoinParagraphs(paragraphs(container.Find("p"), articleParagraphMin, nil))
}

// pageParagraphMin is the length a free-standing paragraph must exceed.
const pageParagraphMin = 40

// boilerplateWords mark paragraphs belonging to consent and paywall banners.
var boilerplateWords = []string{"cookie", "subscribe"}

var _ newsdigest.Strategy = (*PageParagraphs)(nil)

// PageParagraphs reads every substantial paragraph on the page.
type PageParagraphs struct{}

// Name returns the strategy's identifier.
func (s *PageParagraphs) Name() string { return "page-paragraphs" }

// Extract returns paragraphs longer than 40 characters that do not look
// like banner boilerplate.
func (s *PageParagraphs) Extract(page *newsdigest.FetchedPage) string {
	doc := parse(page)
	if doc == nil {
		return ""
	}
	return newsdigest.JoinParagraphs(paragraphs(doc.Find("p"), pageParagraphMin, notBoilerplate))
}

func notBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range boilerplateWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return true
}
