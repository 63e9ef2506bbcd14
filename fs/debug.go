package fs

import (
	"context"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/fwojciec/newsdigest"
)

// Ensure DebugStore implements newsdigest.DebugStore at compile time.
var _ newsdigest.DebugStore = (*DebugStore)(nil)

// DebugStore saves raw payloads to a flat directory, one file per article,
// named after the last URL path segment.
type DebugStore struct {
	dir string
}

// NewDebugStore creates a DebugStore writing to dir.
// The directory is created on first save.
func NewDebugStore(dir string) *DebugStore {
	return &DebugStore{dir: dir}
}

// Dir returns the directory payloads are written to.
func (s *DebugStore) Dir() string {
	return s.dir
}

// Save writes the page payload, replacing an earlier file for the same URL.
func (s *DebugStore) Save(ctx context.Context, page *newsdigest.FetchedPage) error {
	name, err := DebugName(page.Candidate.URL, page.Kind)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	fullPath, err := within(s.dir, name)
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(page.Payload), 0644)
}

// DebugName returns the file name for a payload fetched from rawURL.
// Example: https://example.com/bangladesh/abc123 (html) → abc123.html
func DebugName(rawURL string, kind newsdigest.PayloadKind) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", newsdigest.Errorf(newsdigest.EINVALID, "invalid article URL: %s", rawURL)
	}

	id := path.Base(strings.TrimSuffix(u.Path, "/"))
	if id == "" || id == "." || id == "/" || id == ".." {
		id = "index"
	}
	return id + "." + kind.String(), nil
}
