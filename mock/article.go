package mock

import (
	"context"

	"github.com/fwojciec/newsdigest"
)

var _ newsdigest.ArticleWriter = (*ArticleWriter)(nil)

// ArticleWriter is a mock implementation of newsdigest.ArticleWriter.
type ArticleWriter struct {
	WriteArticleFn func(ctx context.Context, a *newsdigest.Article) error
}

func (w *ArticleWriter) WriteArticle(ctx context.Context, a *newsdigest.Article) error {
	return w.WriteArticleFn(ctx, a)
}

var _ newsdigest.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of newsdigest.ArticleService.
type ArticleService struct {
	WriteArticleFn    func(ctx context.Context, a *newsdigest.Article) error
	FindArticleByIDFn func(ctx context.Context, id string) (*newsdigest.Article, error)
	FindArticlesFn    func(ctx context.Context, filter newsdigest.ArticleFilter) ([]*newsdigest.Article, error)
	UpdateArticleFn   func(ctx context.Context, id string, upd newsdigest.ArticleUpdate) (*newsdigest.Article, error)
	HasURLFn          func(ctx context.Context, url string) (bool, error)
	URLsFn            func(ctx context.Context) ([]string, error)
}

func (s *ArticleService) WriteArticle(ctx context.Context, a *newsdigest.Article) error {
	return s.WriteArticleFn(ctx, a)
}

func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*newsdigest.Article, error) {
	return s.FindArticleByIDFn(ctx, id)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter newsdigest.ArticleFilter) ([]*newsdigest.Article, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) UpdateArticle(ctx context.Context, id string, upd newsdigest.ArticleUpdate) (*newsdigest.Article, error) {
	return s.UpdateArticleFn(ctx, id, upd)
}

func (s *ArticleService) HasURL(ctx context.Context, url string) (bool, error) {
	return s.HasURLFn(ctx, url)
}

func (s *ArticleService) URLs(ctx context.Context) ([]string, error) {
	return s.URLsFn(ctx)
}

var _ newsdigest.DebugStore = (*DebugStore)(nil)

// DebugStore is a mock implementation of newsdigest.DebugStore.
type DebugStore struct {
	SaveFn func(ctx context.Context, page *newsdigest.FetchedPage) error
}

func (s *DebugStore) Save(ctx context.Context, page *newsdigest.FetchedPage) error {
	return s.SaveFn(ctx, page)
}
