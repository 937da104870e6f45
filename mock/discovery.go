package mock

import (
	"context"

	"github.com/michaeldistler/backstage"
)

var _ backstage.DiscoveryService = (*DiscoveryService)(nil)

// DiscoveryService is a mock implementation of backstage.DiscoveryService.
type DiscoveryService struct {
	BaseURLFn func(ctx context.Context, pluginID string) (string, error)
}

func (s *DiscoveryService) BaseURL(ctx context.Context, pluginID string) (string, error) {
	return s.BaseURLFn(ctx, pluginID)
}
