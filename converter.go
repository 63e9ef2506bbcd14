package newsdigest

// Converter converts HTML fragments to Markdown text.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}
