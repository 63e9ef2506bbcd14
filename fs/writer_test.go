package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/newsdigest"
	"github.com/fwojciec/newsdigest/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "simple path",
			url:  "https://example.com/bangladesh/abc123",
			want: "bangladesh/abc123.md",
		},
		{
			name: "trailing slash becomes index",
			url:  "https://example.com/sports/",
			want: "sports/index.md",
		},
		{
			name: "root path becomes index",
			url:  "https://example.com/",
			want: "index.md",
		},
		{
			name: "no trailing slash",
			url:  "https://example.com/sports",
			want: "sports.md",
		},
		{
			name: "ignores query string",
			url:  "https://example.com/sports/xyz?utm_source=fb",
			want: "sports/xyz.md",
		},
		{
			name: "ignores fragment",
			url:  "https://example.com/sports/xyz#comments",
			want: "sports/xyz.md",
		},
		{
			name: "root without trailing slash",
			url:  "https://example.com",
			want: "index.md",
		},
		{
			name: "deep nesting",
			url:  "https://example.com/a/b/c/d/e/f",
			want: "a/b/c/d/e/f.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// splitFrontmatter returns the decoded header and the body of a markdown file.
func splitFrontmatter(t *testing.T, content string) (map[string]string, string) {
	t.Helper()
	require.True(t, strings.HasPrefix(content, "---\n"))
	header, body, ok := strings.Cut(strings.TrimPrefix(content, "---\n"), "---\n\n")
	require.True(t, ok, "frontmatter should be closed")

	var fields map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(header), &fields))
	return fields, body
}

func TestFormatArticle(t *testing.T) {
	t.Parallel()

	t.Run("formats article with frontmatter", func(t *testing.T) {
		t.Parallel()

		a := &newsdigest.Article{
			URL:         "https://example.com/bangladesh/abc123",
			Title:       "ঢাকা: ভারী বৃষ্টি",
			Body:        "ঢাকায় আজ ভারী বৃষ্টি হয়েছে।",
			Category:    "bangladesh",
			PublishedAt: "2024-06-06T09:00:00Z",
			FetchedAt:   time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		}

		got, err := fs.FormatArticle(a)
		require.NoError(t, err)

		fields, body := splitFrontmatter(t, got)
		assert.Equal(t, map[string]string{
			"source":    "https://example.com/bangladesh/abc123",
			"title":     "ঢাকা: ভারী বৃষ্টি",
			"category":  "bangladesh",
			"published": "2024-06-06T09:00:00Z",
			"fetched":   "2025-01-08",
		}, fields)
		assert.Equal(t, "ঢাকায় আজ ভারী বৃষ্টি হয়েছে।\n", body)
	})

	t.Run("includes summary when present", func(t *testing.T) {
		t.Parallel()

		a := &newsdigest.Article{
			URL:     "https://example.com/sports/xyz",
			Body:    "body",
			Summary: "সারাংশ।",
		}

		got, err := fs.FormatArticle(a)
		require.NoError(t, err)

		fields, _ := splitFrontmatter(t, got)
		assert.Equal(t, "সারাংশ।", fields["summary"])
	})
}

func TestWriter_WriteArticle(t *testing.T) {
	t.Parallel()

	t.Run("writes article to URL path", func(t *testing.T) {
		t.Parallel()

		baseDir := t.TempDir()
		w := fs.NewWriter(baseDir)

		a := &newsdigest.Article{
			URL:       "https://example.com/bangladesh/abc123",
			Title:     "শিরোনাম",
			Body:      "লেখা",
			FetchedAt: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		}

		require.NoError(t, w.WriteArticle(context.Background(), a))

		content, err := os.ReadFile(filepath.Join(baseDir, "bangladesh/abc123.md"))
		require.NoError(t, err)
		fields, body := splitFrontmatter(t, string(content))
		assert.Equal(t, "শিরোনাম", fields["title"])
		assert.Equal(t, "লেখা\n", body)
	})

	t.Run("skips failed articles", func(t *testing.T) {
		t.Parallel()

		baseDir := t.TempDir()
		w := fs.NewWriter(baseDir)

		a := &newsdigest.Article{URL: "https://example.com/bangladesh/abc123"}
		a.MarkFailed()

		require.NoError(t, w.WriteArticle(context.Background(), a))

		entries, err := os.ReadDir(baseDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		t.Parallel()

		baseDir := t.TempDir()
		w := fs.NewWriter(filepath.Join(baseDir, "out"))

		a := &newsdigest.Article{URL: "https://example.com/../../escape", Body: "x"}

		err := w.WriteArticle(context.Background(), a)

		require.Error(t, err)
		assert.Equal(t, newsdigest.EINVALID, newsdigest.ErrorCode(err))
	})

	t.Run("validates article", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir())

		err := w.WriteArticle(context.Background(), &newsdigest.Article{Body: "x"})

		require.Error(t, err)
		assert.Equal(t, newsdigest.EINVALID, newsdigest.ErrorCode(err))
	})
}
