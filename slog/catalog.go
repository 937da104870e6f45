// Package slog provides logging decorators for the collaborator
// interfaces, built on the standard library's structured logger.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/michaeldistler/backstage"
)

// Ensure LoggingCatalogService implements backstage.CatalogService.
var _ backstage.CatalogService = (*LoggingCatalogService)(nil)

// LoggingCatalogService wraps a CatalogService with logging.
type LoggingCatalogService struct {
	next   backstage.CatalogService
	logger *slog.Logger
}

// NewLoggingCatalogService creates a new LoggingCatalogService.
func NewLoggingCatalogService(next backstage.CatalogService, logger *slog.Logger) *LoggingCatalogService {
	return &LoggingCatalogService{next: next, logger: logger}
}

// Entities delegates to the wrapped service and logs the operation.
func (s *LoggingCatalogService) Entities(ctx context.Context, filter backstage.EntityFilter, token string) (entities []*backstage.Entity, err error) {
	defer func(begin time.Time) {
		s.logger.Info("catalog query",
			"fields", len(filter.Fields),
			"count", len(entities),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Entities(ctx, filter, token)
}
