package mock

import "github.com/fwojciec/newsdigest"

var _ newsdigest.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of newsdigest.Extractor.
type Extractor struct {
	ExtractFn func(page *newsdigest.FetchedPage) *newsdigest.Article
}

func (e *Extractor) Extract(page *newsdigest.FetchedPage) *newsdigest.Article {
	return e.ExtractFn(page)
}

var _ newsdigest.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of newsdigest.Strategy.
type Strategy struct {
	NameFn    func() string
	ExtractFn func(page *newsdigest.FetchedPage) string
}

func (s *Strategy) Name() string {
	if s.NameFn == nil {
		return "mock"
	}
	return s.NameFn()
}

func (s *Strategy) Extract(page *newsdigest.FetchedPage) string {
	return s.ExtractFn(page)
}

var _ newsdigest.MetadataExtractor = (*MetadataExtractor)(nil)

// MetadataExtractor is a mock implementation of newsdigest.MetadataExtractor.
type MetadataExtractor struct {
	ExtractMetadataFn func(page *newsdigest.FetchedPage) newsdigest.Metadata
}

func (m *MetadataExtractor) ExtractMetadata(page *newsdigest.FetchedPage) newsdigest.Metadata {
	return m.ExtractMetadataFn(page)
}

var _ newsdigest.Converter = (*Converter)(nil)

// Converter is a mock implementation of newsdigest.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
