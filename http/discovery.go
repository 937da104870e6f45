// Package http provides HTTP-based implementations of the collaborator
// interfaces: plugin discovery, token issuance, the catalog client and the
// search index client.
package http

import (
	"context"
	"strings"

	"github.com/michaeldistler/backstage"
)

// Ensure Discovery implements backstage.DiscoveryService at compile time.
var _ backstage.DiscoveryService = (*Discovery)(nil)

// Discovery resolves plugin base URLs from a single backend host, following
// the {baseURL}/api/{pluginID} layout. Individual plugins can be pinned to
// explicit endpoints with WithEndpoint.
type Discovery struct {
	baseURL   string
	endpoints map[string]string
}

// DiscoveryOption configures a Discovery.
type DiscoveryOption func(*Discovery)

// WithEndpoint pins a plugin to an explicit base URL, bypassing the
// single-host layout.
func WithEndpoint(pluginID, baseURL string) DiscoveryOption {
	return func(d *Discovery) {
		d.endpoints[pluginID] = baseURL
	}
}

// NewDiscovery creates a Discovery rooted at the given backend base URL.
func NewDiscovery(baseURL string, opts ...DiscoveryOption) *Discovery {
	d := &Discovery{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		endpoints: make(map[string]string),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// BaseURL returns the base URL for the plugin.
func (d *Discovery) BaseURL(ctx context.Context, pluginID string) (string, error) {
	if endpoint, ok := d.endpoints[pluginID]; ok {
		return strings.TrimSuffix(endpoint, "/"), nil
	}
	if d.baseURL == "" {
		return "", backstage.Errorf(backstage.EUNAVAILABLE, "no endpoint known for plugin %q", pluginID)
	}
	return d.baseURL + "/api/" + pluginID, nil
}
