package goquery

import (
	"strings"

	"github.com/fwojciec/newsdigest"
)

var _ newsdigest.MetadataExtractor = (*MetadataExtractor)(nil)

// MetadataExtractor locates the headline, publication time and lead image
// of an article page.
type MetadataExtractor struct{}

// NewMetadataExtractor creates a new MetadataExtractor.
func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{}
}

// ExtractMetadata reads the first h1, the datetime of the first time
// element, and the source of the first figure or .article-image image.
// Lazy-loaded images fall back to data-src.
func (e *MetadataExtractor) ExtractMetadata(page *newsdigest.FetchedPage) newsdigest.Metadata {
	var m newsdigest.Metadata
	doc := parse(page)
	if doc == nil {
		return m
	}

	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		m.Title = newsdigest.CleanText(h1.Text())
	}

	if t := doc.Find("time[datetime]").First(); t.Length() > 0 {
		m.PublishedAt = strings.TrimSpace(t.AttrOr("datetime", ""))
	}

	if img := firstMatch(doc, "figure img", ".article-image img"); img != nil {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" {
			src = strings.TrimSpace(img.AttrOr("data-src", ""))
		}
		m.ImageURL = src
	}

	return m
}
