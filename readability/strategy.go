// Package readability provides a Mozilla Readability based body strategy
// and metadata extractor.
package readability

import (
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/newsdigest"
	"github.com/go-shiori/go-readability"
)

// Ensure Strategy implements the extraction interfaces at compile time.
var (
	_ newsdigest.Strategy          = (*Strategy)(nil)
	_ newsdigest.MetadataExtractor = (*Strategy)(nil)
)

// Strategy wraps go-readability to locate the main content of a page.
type Strategy struct{}

// NewStrategy creates a new Strategy.
func NewStrategy() *Strategy {
	return &Strategy{}
}

// Name returns the strategy name.
func (s *Strategy) Name() string { return "readability" }

// Extract returns the readable text of the page, one paragraph per
// non-blank line.
func (s *Strategy) Extract(page *newsdigest.FetchedPage) string {
	article, ok := parse(page)
	if !ok {
		return ""
	}
	return newsdigest.JoinParagraphs(strings.Split(article.TextContent, "\n"))
}

// ExtractMetadata returns the title, publication time and lead image that
// readability found in the page metadata.
func (s *Strategy) ExtractMetadata(page *newsdigest.FetchedPage) newsdigest.Metadata {
	article, ok := parse(page)
	if !ok {
		return newsdigest.Metadata{}
	}

	m := newsdigest.Metadata{
		Title:    article.Title,
		ImageURL: article.Image,
	}
	if article.PublishedTime != nil {
		m.PublishedAt = article.PublishedTime.UTC().Format(time.RFC3339)
	}
	return m
}

func parse(page *newsdigest.FetchedPage) (readability.Article, bool) {
	if page.Kind != newsdigest.PayloadHTML || strings.TrimSpace(page.Payload) == "" {
		return readability.Article{}, false
	}

	pageURL, err := url.Parse(page.Candidate.URL)
	if err != nil {
		pageURL = nil
	}

	article, err := readability.FromReader(strings.NewReader(page.Payload), pageURL)
	if err != nil {
		return readability.Article{}, false
	}
	return article, true
}
