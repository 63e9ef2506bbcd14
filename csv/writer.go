// Package csv writes articles as CSV rows in the fixed column order.
package csv

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"sync"

	"github.com/fwojciec/newsdigest"
)

// Ensure Writer implements newsdigest.ArticleWriter at compile time.
var _ newsdigest.ArticleWriter = (*Writer)(nil)

// Writer writes one CSV record per article after a header row.
// Records are flushed as they are written so a killed run keeps
// everything written so far.
type Writer struct {
	mu          sync.Mutex
	w           *csv.Writer
	closer      io.Closer
	withSummary bool
	header      bool
	rows        int
}

// NewWriter creates a Writer on w. When withSummary is set, the summary
// column is appended to every row.
func NewWriter(w io.Writer, withSummary bool) *Writer {
	return &Writer{w: csv.NewWriter(w), withSummary: withSummary}
}

// Create creates or truncates the file at path and returns a Writer on it.
// Close closes the file.
func Create(path string, withSummary bool) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := NewWriter(f, withSummary)
	w.closer = f
	return w, nil
}

// Append opens the file at path for appending, creating it if needed, and
// returns a Writer on it. The header is written only when the file is empty,
// so repeated runs add rows under a single header. Close closes the file.
func Append(path string, withSummary bool) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	w := NewWriter(f, withSummary)
	w.closer = f
	w.header = info.Size() > 0
	return w, nil
}

// Header returns the column names written by the Writer.
func (w *Writer) Header() []string {
	header := append([]string(nil), newsdigest.Columns...)
	if w.withSummary {
		header = append(header, newsdigest.SummaryColumn)
	}
	return header
}

// WriteArticle appends the article as one record.
func (w *Writer) WriteArticle(ctx context.Context, a *newsdigest.Article) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writeHeader(); err != nil {
		return err
	}
	if err := w.w.Write(a.Record(w.withSummary)); err != nil {
		return err
	}
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows returns the number of records written, excluding the header.
func (w *Writer) Rows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

// Close writes the header if no article was written, flushes, and closes
// the underlying file when the Writer owns one.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.writeHeader()
	w.w.Flush()
	if err == nil {
		err = w.w.Error()
	}
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
		w.closer = nil
	}
	return err
}

func (w *Writer) writeHeader() error {
	if w.header {
		return nil
	}
	w.header = true
	return w.w.Write(w.Header())
}
