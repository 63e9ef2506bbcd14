package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/newsdigest"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ newsdigest.ArticleService = (*ArticleService)(nil)

const articleColumns = "id, url, title, body, image_url, published_at, category, content_length, strategy, summary, content_hash, fetched_at"

// ArticleService implements newsdigest.ArticleService using SQLite.
// Articles are unique by URL; writing a URL again refreshes the stored row
// and keeps its ID.
type ArticleService struct {
	db  *DB
	now func() time.Time
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db, now: time.Now}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// WriteArticle inserts the article or refreshes the row stored for its URL.
func (s *ArticleService) WriteArticle(ctx context.Context, a *newsdigest.Article) error {
	if err := a.Validate(); err != nil {
		return err
	}

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.FetchedAt.IsZero() {
		a.FetchedAt = s.now().UTC()
	}
	if a.ContentHash == "" {
		a.ContentHash = hashContent(a.Body)
	}

	return s.db.QueryRowContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			image_url = excluded.image_url,
			published_at = excluded.published_at,
			category = excluded.category,
			content_length = excluded.content_length,
			strategy = excluded.strategy,
			summary = excluded.summary,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
		RETURNING id
	`, a.ID, a.URL, a.Title, a.Body, a.ImageURL, a.PublishedAt, a.Category,
		a.ContentLength, a.Strategy, a.Summary, a.ContentHash,
		a.FetchedAt.Format(time.RFC3339)).Scan(&a.ID)
}

// FindArticleByID retrieves an article by ID.
func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*newsdigest.Article, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE id = ?", id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, newsdigest.Errorf(newsdigest.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindArticles retrieves articles matching the filter, newest first.
func (s *ArticleService) FindArticles(ctx context.Context, filter newsdigest.ArticleFilter) ([]*newsdigest.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + articleColumns + " FROM articles WHERE 1=1")

	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, *filter.Category)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.NoSummary {
		query.WriteString(" AND summary = ''")
	}

	query.WriteString(" ORDER BY fetched_at DESC, rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*newsdigest.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	return articles, rows.Err()
}

// UpdateArticle updates an existing article.
func (s *ArticleService) UpdateArticle(ctx context.Context, id string, upd newsdigest.ArticleUpdate) (*newsdigest.Article, error) {
	a, err := s.FindArticleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Summary != nil {
		a.Summary = *upd.Summary
	}

	if _, err := s.db.ExecContext(ctx, "UPDATE articles SET summary = ? WHERE id = ?", a.Summary, id); err != nil {
		return nil, err
	}

	return a, nil
}

// HasURL reports whether an article with the URL is stored.
func (s *ArticleService) HasURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM articles WHERE url = ?)", url).Scan(&exists)
	return exists, err
}

// URLs returns the URLs of all stored articles in insertion order.
func (s *ArticleService) URLs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT url FROM articles ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}
