// Package fs provides file-based storage for articles and debug payloads.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/newsdigest"
	"gopkg.in/yaml.v3"
)

// URLToPath converts an article URL to a relative file path.
// Example: https://example.com/bangladesh/abc123 → bangladesh/abc123.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	path := u.Path

	// Handle root or trailing slash → index.md
	if path == "" || path == "/" {
		return "index.md", nil
	}

	// Remove leading slash
	path = strings.TrimPrefix(path, "/")

	// Trailing slash becomes index.md in that directory
	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}

	// Otherwise append .md
	return path + ".md", nil
}

// frontmatter is the YAML header of an exported article.
type frontmatter struct {
	Source      string `yaml:"source"`
	Title       string `yaml:"title"`
	Category    string `yaml:"category,omitempty"`
	PublishedAt string `yaml:"published,omitempty"`
	Image       string `yaml:"image,omitempty"`
	Fetched     string `yaml:"fetched"`
	Summary     string `yaml:"summary,omitempty"`
}

// FormatArticle formats an article with YAML frontmatter followed by its body.
func FormatArticle(a *newsdigest.Article) (string, error) {
	header, err := yaml.Marshal(frontmatter{
		Source:      a.URL,
		Title:       a.Title,
		Category:    a.Category,
		PublishedAt: a.PublishedAt,
		Image:       a.ImageURL,
		Fetched:     a.FetchedAt.Format("2006-01-02"),
		Summary:     a.Summary,
	})
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(a.Body)
	b.WriteString("\n")
	return b.String(), nil
}

// Ensure Writer implements newsdigest.ArticleWriter at compile time.
var _ newsdigest.ArticleWriter = (*Writer)(nil)

// Writer writes articles as markdown files to a directory, mirroring the
// URL path of each article.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteArticle writes an article to disk as a markdown file.
// Failed articles are skipped.
func (w *Writer) WriteArticle(ctx context.Context, a *newsdigest.Article) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.Failed() {
		return nil
	}

	relPath, err := URLToPath(a.URL)
	if err != nil {
		return err
	}

	fullPath, err := within(w.baseDir, relPath)
	if err != nil {
		return err
	}

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	content, err := FormatArticle(a)
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// within joins relPath to baseDir and rejects results outside baseDir.
func within(baseDir, relPath string) (string, error) {
	fullPath := filepath.Join(baseDir, relPath)
	rel, err := filepath.Rel(baseDir, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", newsdigest.Errorf(newsdigest.EINVALID, "path escapes output directory: %s", relPath)
	}
	return fullPath, nil
}
