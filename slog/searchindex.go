package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/michaeldistler/backstage"
)

// Ensure LoggingSearchIndexService implements backstage.SearchIndexService.
var _ backstage.SearchIndexService = (*LoggingSearchIndexService)(nil)

// LoggingSearchIndexService wraps a SearchIndexService with debug logging.
type LoggingSearchIndexService struct {
	next   backstage.SearchIndexService
	logger *slog.Logger
}

// NewLoggingSearchIndexService creates a new LoggingSearchIndexService.
func NewLoggingSearchIndexService(next backstage.SearchIndexService, logger *slog.Logger) *LoggingSearchIndexService {
	return &LoggingSearchIndexService{next: next, logger: logger}
}

// Fetch delegates to the wrapped service and logs the operation.
func (s *LoggingSearchIndexService) Fetch(ctx context.Context, baseURL string, key backstage.EntityKey) (index *backstage.SearchIndex, err error) {
	defer func(begin time.Time) {
		var count int
		if index != nil {
			count = len(index.Docs)
		}
		s.logger.Debug("search index fetch",
			"kind", key.Kind,
			"namespace", key.Namespace,
			"name", key.Name,
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Fetch(ctx, baseURL, key)
}
