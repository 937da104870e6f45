package mock

import (
	"context"

	"github.com/michaeldistler/backstage"
)

var _ backstage.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of backstage.CatalogService.
type CatalogService struct {
	EntitiesFn func(ctx context.Context, filter backstage.EntityFilter, token string) ([]*backstage.Entity, error)
}

func (s *CatalogService) Entities(ctx context.Context, filter backstage.EntityFilter, token string) ([]*backstage.Entity, error) {
	return s.EntitiesFn(ctx, filter, token)
}
