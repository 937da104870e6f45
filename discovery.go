package backstage

import "context"

// DiscoveryService resolves the base URL at which a backend plugin is
// reachable.
type DiscoveryService interface {
	// BaseURL returns the externally reachable base URL for the plugin.
	// Returns EUNAVAILABLE if the plugin is unknown or unreachable.
	BaseURL(ctx context.Context, pluginID string) (string, error)
}
