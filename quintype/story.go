package quintype

import (
	"strings"

	"github.com/fwojciec/newsdigest"
)

var _ newsdigest.Extractor = (*StoryExtractor)(nil)

// StoryExtractor builds articles from JSON story payloads.
//
// The body is the content of the text elements in order, joined with single
// spaces. The image is the hero image, or else the first image element.
type StoryExtractor struct {
	// Converter, if set, turns HTML in text elements into plain text.
	Converter newsdigest.Converter
}

// Extract decodes page as a story. Undecodable payloads and stories without
// text produce the failure marker.
func (e *StoryExtractor) Extract(page *newsdigest.FetchedPage) *newsdigest.Article {
	a := &newsdigest.Article{
		URL:      page.Candidate.URL,
		Category: page.Candidate.Category,
	}

	s, err := decodeStory(page.Payload)
	if err != nil {
		a.Title = titleOr(page.Candidate.Headline)
		a.MarkFailed()
		return a
	}

	a.Title = titleOr(string(s.Headline), page.Candidate.Headline)
	a.PublishedAt = s.published()
	if a.Category == "" {
		a.Category = s.category()
	}
	a.ImageURL = s.heroImage()

	var parts []string
	for _, el := range s.elements() {
		switch el.Type {
		case "text":
			if text := e.convert(el.text()); text != "" {
				parts = append(parts, text)
			}
		case "image":
			if a.ImageURL == "" {
				a.ImageURL = el.image()
			}
		}
	}

	body := strings.TrimSpace(strings.Join(parts, " "))
	if body == "" {
		a.MarkFailed()
		return a
	}
	a.SetBody(body, newsdigest.StrategyStory)
	return a
}

// convert rewrites the markup of a text element when a Converter is set.
// Content the converter rejects is kept as is.
func (e *StoryExtractor) convert(content string) string {
	content = strings.TrimSpace(content)
	if e.Converter == nil || content == "" {
		return content
	}
	text, err := e.Converter.Convert(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(text)
}

// titleOr returns the first non-empty candidate title, or NoTitle.
func titleOr(titles ...string) string {
	for _, t := range titles {
		if t = newsdigest.CleanText(t); t != "" {
			return t
		}
	}
	return newsdigest.NoTitle
}
