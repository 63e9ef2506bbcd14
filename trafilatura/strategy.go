// Package trafilatura provides a go-trafilatura based body strategy and
// metadata extractor.
package trafilatura

import (
	"strings"
	"time"

	"github.com/fwojciec/newsdigest"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Strategy implements the extraction interfaces at compile time.
var (
	_ newsdigest.Strategy          = (*Strategy)(nil)
	_ newsdigest.MetadataExtractor = (*Strategy)(nil)
)

// Strategy wraps go-trafilatura to extract main content from HTML.
type Strategy struct {
	opts trafilatura.Options
}

// NewStrategy creates a new Strategy with fallback extractors enabled.
func NewStrategy() *Strategy {
	return &Strategy{
		opts: trafilatura.Options{
			EnableFallback: true,
		},
	}
}

// Name returns the strategy name.
func (s *Strategy) Name() string { return "trafilatura" }

// Extract returns the text of the block elements in the extracted content.
// If the content tree has no blocks, the plain text is split by line.
func (s *Strategy) Extract(page *newsdigest.FetchedPage) string {
	result, ok := s.extract(page)
	if !ok {
		return ""
	}

	var units []string
	if result.ContentNode != nil {
		units = blocks(result.ContentNode)
	}
	if len(units) == 0 {
		units = strings.Split(result.ContentText, "\n")
	}
	return newsdigest.JoinParagraphs(units)
}

// ExtractMetadata returns the title, date and image trafilatura found.
func (s *Strategy) ExtractMetadata(page *newsdigest.FetchedPage) newsdigest.Metadata {
	result, ok := s.extract(page)
	if !ok {
		return newsdigest.Metadata{}
	}

	m := newsdigest.Metadata{
		Title:    result.Metadata.Title,
		ImageURL: result.Metadata.Image,
	}
	if !result.Metadata.Date.IsZero() {
		m.PublishedAt = result.Metadata.Date.UTC().Format(time.RFC3339)
	}
	return m
}

func (s *Strategy) extract(page *newsdigest.FetchedPage) (*trafilatura.ExtractResult, bool) {
	if page.Kind != newsdigest.PayloadHTML || strings.TrimSpace(page.Payload) == "" {
		return nil, false
	}
	result, err := trafilatura.Extract(strings.NewReader(page.Payload), s.opts)
	if err != nil || result == nil {
		return nil, false
	}
	return result, true
}

// blockAtoms are the elements whose text forms one paragraph.
var blockAtoms = map[atom.Atom]bool{
	atom.P:          true,
	atom.Li:         true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
}

// blocks collects the text of the outermost block elements under n.
func blocks(n *html.Node) []string {
	var units []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && blockAtoms[n.DataAtom] {
			units = append(units, newsdigest.CleanText(textOf(n)))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return units
}

// textOf concatenates the text nodes under n.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
