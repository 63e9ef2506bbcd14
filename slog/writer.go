package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsdigest"
)

// Ensure LoggingArticleWriter implements newsdigest.ArticleWriter.
var _ newsdigest.ArticleWriter = (*LoggingArticleWriter)(nil)

// LoggingArticleWriter wraps an ArticleWriter with debug logging.
type LoggingArticleWriter struct {
	next   newsdigest.ArticleWriter
	logger *slog.Logger
}

// NewLoggingArticleWriter creates a new LoggingArticleWriter.
func NewLoggingArticleWriter(next newsdigest.ArticleWriter, logger *slog.Logger) *LoggingArticleWriter {
	return &LoggingArticleWriter{next: next, logger: logger}
}

// WriteArticle delegates to the wrapped writer and logs the article.
func (w *LoggingArticleWriter) WriteArticle(ctx context.Context, a *newsdigest.Article) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("write article",
			"url", a.URL,
			"strategy", a.Strategy,
			"length", a.ContentLength,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteArticle(ctx, a)
}
