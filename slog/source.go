package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsdigest"
)

// Ensure LoggingLinkSource implements newsdigest.LinkSource.
var _ newsdigest.LinkSource = (*LoggingLinkSource)(nil)

// LoggingLinkSource wraps a LinkSource with debug logging.
type LoggingLinkSource struct {
	next   newsdigest.LinkSource
	name   string
	logger *slog.Logger
}

// NewLoggingLinkSource creates a new LoggingLinkSource. The name
// identifies the listing surface in log lines.
func NewLoggingLinkSource(next newsdigest.LinkSource, name string, logger *slog.Logger) *LoggingLinkSource {
	return &LoggingLinkSource{next: next, name: name, logger: logger}
}

// Discover delegates to the wrapped source and logs the operation.
func (s *LoggingLinkSource) Discover(ctx context.Context) (candidates []newsdigest.Candidate, err error) {
	defer func(begin time.Time) {
		s.logger.Info("discovery",
			"source", s.name,
			"count", len(candidates),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Discover(ctx)
}
