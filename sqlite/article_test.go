package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/newsdigest"
	"github.com/fwojciec/newsdigest/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func newArticle(url, category string, fetchedAt time.Time) *newsdigest.Article {
	a := &newsdigest.Article{
		Title:       "শিরোনাম",
		ImageURL:    "https://images.example.com/1.jpg",
		URL:         url,
		PublishedAt: "2024-06-06T09:00:00Z",
		Category:    category,
		FetchedAt:   fetchedAt,
	}
	a.SetBody("ঢাকায় আজ ভারী বৃষ্টি হয়েছে।", 2)
	return a
}

func TestArticleService_WriteArticle(t *testing.T) {
	t.Parallel()

	t.Run("stores article with generated ID and hash", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		a := newArticle("https://example.com/bangladesh/1", "bangladesh", time.Time{})
		require.NoError(t, svc.WriteArticle(ctx, a))

		assert.NotEmpty(t, a.ID, "ID should be generated")
		assert.NotEmpty(t, a.ContentHash, "ContentHash should be generated")
		assert.False(t, a.FetchedAt.IsZero(), "FetchedAt should be set")

		found, err := svc.FindArticleByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.URL, found.URL)
		assert.Equal(t, a.Title, found.Title)
		assert.Equal(t, a.Body, found.Body)
		assert.Equal(t, a.ImageURL, found.ImageURL)
		assert.Equal(t, a.PublishedAt, found.PublishedAt)
		assert.Equal(t, a.Category, found.Category)
		assert.Equal(t, a.ContentLength, found.ContentLength)
		assert.Equal(t, 2, found.Strategy)
		assert.Equal(t, a.ContentHash, found.ContentHash)
	})

	t.Run("keeps a provided content hash", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		a := newArticle("https://example.com/sports/1", "sports", time.Time{})
		a.ContentHash = "00000000deadbeef"
		require.NoError(t, svc.WriteArticle(ctx, a))

		found, err := svc.FindArticleByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "00000000deadbeef", found.ContentHash)
	})

	t.Run("stores failed articles with the failure marker", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		a := &newsdigest.Article{URL: "https://example.com/world/1", Title: newsdigest.NoTitle}
		a.MarkFailed()
		require.NoError(t, svc.WriteArticle(ctx, a))

		found, err := svc.FindArticleByID(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, found.Failed())
		assert.Equal(t, newsdigest.FailureMarker, found.Body)
	})

	t.Run("refreshes the row for a known URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		first := newArticle("https://example.com/bangladesh/1", "bangladesh", time.Time{})
		require.NoError(t, svc.WriteArticle(ctx, first))

		second := newArticle("https://example.com/bangladesh/1", "bangladesh", time.Time{})
		second.SetBody("নতুন লেখা", 3)
		require.NoError(t, svc.WriteArticle(ctx, second))

		assert.Equal(t, first.ID, second.ID, "ID should be kept")

		articles, err := svc.FindArticles(ctx, newsdigest.ArticleFilter{})
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "নতুন লেখা", articles[0].Body)
		assert.Equal(t, 3, articles[0].Strategy)
	})

	t.Run("returns EINVALID for article without URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)

		err := svc.WriteArticle(context.Background(), &newsdigest.Article{Body: "x"})

		require.Error(t, err)
		assert.Equal(t, newsdigest.EINVALID, newsdigest.ErrorCode(err))
	})
}

func TestArticleService_FindArticleByID(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)

		_, err := svc.FindArticleByID(context.Background(), "nonexistent")

		require.Error(t, err)
		assert.Equal(t, newsdigest.ENOTFOUND, newsdigest.ErrorCode(err))
	})
}

func TestArticleService_FindArticles(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 6, 6, 9, 0, 0, 0, time.UTC)

	seed := func(t *testing.T, svc *sqlite.ArticleService) {
		t.Helper()
		ctx := context.Background()
		require.NoError(t, svc.WriteArticle(ctx, newArticle("https://example.com/bangladesh/1", "bangladesh", base)))
		require.NoError(t, svc.WriteArticle(ctx, newArticle("https://example.com/sports/1", "sports", base.Add(time.Hour))))
		summarized := newArticle("https://example.com/bangladesh/2", "bangladesh", base.Add(2*time.Hour))
		summarized.Summary = "সারাংশ।"
		require.NoError(t, svc.WriteArticle(ctx, summarized))
	}

	urls := func(articles []*newsdigest.Article) []string {
		var out []string
		for _, a := range articles {
			out = append(out, a.URL)
		}
		return out
	}

	t.Run("returns all articles newest first", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		seed(t, svc)

		articles, err := svc.FindArticles(context.Background(), newsdigest.ArticleFilter{})

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/bangladesh/2",
			"https://example.com/sports/1",
			"https://example.com/bangladesh/1",
		}, urls(articles))
	})

	t.Run("filters by category", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		seed(t, svc)

		category := "sports"
		articles, err := svc.FindArticles(context.Background(), newsdigest.ArticleFilter{Category: &category})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/sports/1"}, urls(articles))
	})

	t.Run("filters by URL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		seed(t, svc)

		url := "https://example.com/bangladesh/1"
		articles, err := svc.FindArticles(context.Background(), newsdigest.ArticleFilter{URL: &url})

		require.NoError(t, err)
		assert.Equal(t, []string{url}, urls(articles))
	})

	t.Run("filters articles without summary", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		seed(t, svc)

		articles, err := svc.FindArticles(context.Background(), newsdigest.ArticleFilter{NoSummary: true})

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/sports/1",
			"https://example.com/bangladesh/1",
		}, urls(articles))
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		seed(t, svc)
		ctx := context.Background()

		page, err := svc.FindArticles(ctx, newsdigest.ArticleFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/sports/1"}, urls(page))

		rest, err := svc.FindArticles(ctx, newsdigest.ArticleFilter{Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/bangladesh/1"}, urls(rest))
	})
}

func TestArticleService_UpdateArticle(t *testing.T) {
	t.Parallel()

	t.Run("updates summary", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)
		ctx := context.Background()

		a := newArticle("https://example.com/bangladesh/1", "bangladesh", time.Time{})
		require.NoError(t, svc.WriteArticle(ctx, a))

		summary := "বৃষ্টি হয়েছে।"
		updated, err := svc.UpdateArticle(ctx, a.ID, newsdigest.ArticleUpdate{Summary: &summary})
		require.NoError(t, err)
		assert.Equal(t, summary, updated.Summary)

		found, err := svc.FindArticleByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, summary, found.Summary)
		assert.Equal(t, a.Body, found.Body)
	})

	t.Run("returns ENOTFOUND for unknown ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewArticleService(db)

		summary := "x"
		_, err := svc.UpdateArticle(context.Background(), "nonexistent", newsdigest.ArticleUpdate{Summary: &summary})

		require.Error(t, err)
		assert.Equal(t, newsdigest.ENOTFOUND, newsdigest.ErrorCode(err))
	})
}

func TestArticleService_URLs(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewArticleService(db)
	ctx := context.Background()

	require.NoError(t, svc.WriteArticle(ctx, newArticle("https://example.com/a", "a", time.Time{})))
	require.NoError(t, svc.WriteArticle(ctx, newArticle("https://example.com/b", "b", time.Time{})))

	urls, err := svc.URLs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, urls)

	has, err := svc.HasURL(ctx, "https://example.com/b")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = svc.HasURL(ctx, "https://example.com/c")
	require.NoError(t, err)
	assert.False(t, has)
}
