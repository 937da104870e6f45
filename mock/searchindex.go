package mock

import (
	"context"

	"github.com/michaeldistler/backstage"
)

var _ backstage.SearchIndexService = (*SearchIndexService)(nil)

// SearchIndexService is a mock implementation of backstage.SearchIndexService.
type SearchIndexService struct {
	FetchFn func(ctx context.Context, baseURL string, key backstage.EntityKey) (*backstage.SearchIndex, error)
}

func (s *SearchIndexService) Fetch(ctx context.Context, baseURL string, key backstage.EntityKey) (*backstage.SearchIndex, error) {
	return s.FetchFn(ctx, baseURL, key)
}
