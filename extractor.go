package newsdigest

import "strings"

// Extractor turns a fetched page into an article.
// Extract is total: it never fails, and an article whose body could not be
// found carries the FailureMarker instead.
type Extractor interface {
	Extract(page *FetchedPage) *Article
}

// Metadata holds the article fields located independently of the body.
type Metadata struct {
	Title       string
	PublishedAt string
	ImageURL    string
}

// MetadataExtractor locates title, publication time and lead image.
// Fields it cannot find are left empty.
type MetadataExtractor interface {
	ExtractMetadata(page *FetchedPage) Metadata
}

// fill copies fields from o into m where m is empty.
func (m *Metadata) fill(o Metadata) {
	if m.Title == "" {
		m.Title = o.Title
	}
	if m.PublishedAt == "" {
		m.PublishedAt = o.PublishedAt
	}
	if m.ImageURL == "" {
		m.ImageURL = o.ImageURL
	}
}

func (m *Metadata) complete() bool {
	return m.Title != "" && m.PublishedAt != "" && m.ImageURL != ""
}

// Ensure PageExtractor implements Extractor at compile time.
var _ Extractor = (*PageExtractor)(nil)

// PageExtractor dispatches a fetched page by payload kind: HTML pages go
// through the body cascade and metadata extractors, JSON payloads go to the
// story extractor.
type PageExtractor struct {
	Cascade *Cascade

	// Metadata extractors run in order; later ones only fill fields the
	// earlier ones left empty.
	Metadata []MetadataExtractor

	// Story handles JSON payloads. If nil, JSON payloads go through the
	// HTML path and will normally end with the failure marker.
	Story Extractor
}

// Extract builds an article from page.
func (e *PageExtractor) Extract(page *FetchedPage) *Article {
	if page.Kind == PayloadJSON && e.Story != nil {
		a := e.Story.Extract(page)
		a.URL = page.Candidate.URL
		if a.Category == "" {
			a.Category = page.Candidate.Category
		}
		return a
	}

	var meta Metadata
	for _, m := range e.Metadata {
		meta.fill(m.ExtractMetadata(page))
		if meta.complete() {
			break
		}
	}

	a := &Article{
		Title:       CleanText(meta.Title),
		ImageURL:    strings.TrimSpace(meta.ImageURL),
		PublishedAt: strings.TrimSpace(meta.PublishedAt),
		URL:         page.Candidate.URL,
		Category:    page.Candidate.Category,
	}
	if a.Title == "" {
		a.Title = NoTitle
	}

	res := e.Cascade.Run(page)
	if res.Text == "" {
		a.MarkFailed()
	} else {
		a.SetBody(res.Text, res.Strategy)
	}
	return a
}
