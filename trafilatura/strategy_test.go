package trafilatura_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/newsdigest"
	"github.com/fwojciec/newsdigest/trafilatura"
	"github.com/stretchr/testify/assert"
)

func htmlPage(payload string) *newsdigest.FetchedPage {
	return newsdigest.NewFetchedPage(newsdigest.Candidate{URL: "https://example.com/bangladesh/abc123"}, payload)
}

func TestStrategy_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/">Home</a><a href="/sports">Sports</a></nav>
<article>
<h1>Heavy rain in Dhaka</h1>
<p>This is important article content that should be extracted from the page.</p>
<p>The weather office expects the rain to continue for two more days across the region.</p>
</article>
<aside>Sidebar content</aside>
<footer>Copyright 2024</footer>
</body>
</html>`

		text := trafilatura.NewStrategy().Extract(htmlPage(html))

		assert.Contains(t, text, "important article content")
		assert.Contains(t, text, "two more days")
	})

	t.Run("removes navigation boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/">Home</a></li>
<li><a href="/about">About</a></li>
<li><a href="/bangladesh">Bangladesh</a></li>
</ul>
</nav>
<main>
<h1>Main Content</h1>
<p>This paragraph contains the actual content we want.</p>
</main>
</body>
</html>`

		text := trafilatura.NewStrategy().Extract(htmlPage(html))

		assert.Contains(t, text, "actual content we want")
		assert.NotContains(t, text, "About")
	})

	t.Run("removes footer boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<h1>Article Title</h1>
<p>Article body with substantive content for readers.</p>
</article>
<footer>
<p>Copyright 2024 Example Corp</p>
<nav>Privacy | Terms | Contact</nav>
</footer>
</body>
</html>`

		text := trafilatura.NewStrategy().Extract(htmlPage(html))

		assert.Contains(t, text, "substantive content")
		assert.NotContains(t, text, "Copyright 2024 Example Corp")
	})

	t.Run("separates paragraphs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article>
<p>First paragraph of the story with enough words to count as content.</p>
<p>Second paragraph of the story with enough words to count as content.</p>
</article></body></html>`

		text := trafilatura.NewStrategy().Extract(htmlPage(html))

		first, second, ok := strings.Cut(text, newsdigest.ParagraphSeparator)
		assert.True(t, ok, "got %q", text)
		assert.Contains(t, first, "First paragraph")
		assert.Contains(t, second, "Second paragraph")
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		text := trafilatura.NewStrategy().Extract(htmlPage(`<html><body><p>Simple content</p></body></html>`))

		assert.Contains(t, text, "Simple content")
	})

	t.Run("returns empty for empty input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, trafilatura.NewStrategy().Extract(htmlPage("")))
	})

	t.Run("ignores JSON payloads", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, trafilatura.NewStrategy().Extract(htmlPage(`{"story":{"id":1}}`)))
	})
}

func TestStrategy_ExtractMetadata(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Heavy rain in Dhaka - Example News</title>
<meta property="og:title" content="Heavy rain in Dhaka">
</head>
<body>
<main>
<h1>Heavy rain in Dhaka</h1>
<p>This is the main content of the article page.</p>
</main>
</body>
</html>`

		m := trafilatura.NewStrategy().ExtractMetadata(htmlPage(html))

		assert.NotEmpty(t, m.Title)
	})

	t.Run("returns nothing for empty input", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, newsdigest.Metadata{}, trafilatura.NewStrategy().ExtractMetadata(htmlPage("")))
	})
}

func TestStrategy_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "trafilatura", trafilatura.NewStrategy().Name())
}
