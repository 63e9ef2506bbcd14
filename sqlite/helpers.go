package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/newsdigest"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
// SQLite requires a LIMIT before OFFSET, so an offset alone uses LIMIT -1.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	} else if offset > 0 {
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanArticle reads a row selected with articleColumns.
func scanArticle(row scanner) (*newsdigest.Article, error) {
	var a newsdigest.Article
	var fetchedAt string

	if err := row.Scan(&a.ID, &a.URL, &a.Title, &a.Body, &a.ImageURL, &a.PublishedAt,
		&a.Category, &a.ContentLength, &a.Strategy, &a.Summary, &a.ContentHash, &fetchedAt); err != nil {
		return nil, err
	}

	var err error
	a.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}
	return &a, nil
}
