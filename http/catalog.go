package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/michaeldistler/backstage"
)

// Ensure CatalogService implements backstage.CatalogService at compile time.
var _ backstage.CatalogService = (*CatalogService)(nil)

// CatalogService queries the software catalog's REST API for entities.
type CatalogService struct {
	client  *http.Client
	baseURL string
}

// CatalogOption configures a CatalogService.
type CatalogOption func(*CatalogService)

// WithCatalogHTTPClient overrides the HTTP client used for catalog requests.
func WithCatalogHTTPClient(client *http.Client) CatalogOption {
	return func(s *CatalogService) {
		s.client = client
	}
}

// NewCatalogService creates a CatalogService rooted at the catalog API base
// URL (e.g. http://backstage.example.com/api/catalog).
func NewCatalogService(baseURL string, opts ...CatalogOption) *CatalogService {
	s := &CatalogService{
		client:  http.DefaultClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Entities returns all catalog entities, requesting only the fields named
// by the filter.
func (s *CatalogService) Entities(ctx context.Context, filter backstage.EntityFilter, token string) ([]*backstage.Entity, error) {
	endpoint, err := url.Parse(s.baseURL + "/entities")
	if err != nil {
		return nil, backstage.Errorf(backstage.EINVALID, "invalid catalog URL: %v", err)
	}
	if len(filter.Fields) > 0 {
		query := endpoint.Query()
		query.Set("fields", strings.Join(filter.Fields, ","))
		endpoint.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, backstage.Errorf(backstage.EUNAUTHORIZED, "catalog rejected credentials (HTTP %d)", resp.StatusCode)
	default:
		return nil, backstage.Errorf(backstage.EUNAVAILABLE, "catalog returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items []*backstage.Entity `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, backstage.Errorf(backstage.EINVALID, "parse catalog response: %v", err)
	}
	return payload.Items, nil
}
