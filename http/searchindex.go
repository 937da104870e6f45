package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/michaeldistler/backstage"
)

// Ensure SearchIndexService implements backstage.SearchIndexService at
// compile time.
var _ backstage.SearchIndexService = (*SearchIndexService)(nil)

// SearchIndexService retrieves per-entity search indexes from the TechDocs
// static hosting at
// {baseURL}/static/docs/{namespace}/{kind}/{name}/search/search_index.json.
type SearchIndexService struct {
	client  *http.Client
	limiter backstage.HostLimiter
}

// Option configures a SearchIndexService.
type Option func(*SearchIndexService)

// WithHTTPClient overrides the HTTP client used for index requests.
func WithHTTPClient(client *http.Client) Option {
	return func(s *SearchIndexService) {
		s.client = client
	}
}

// WithHostLimiter rate-limits index fetches per target host.
func WithHostLimiter(limiter backstage.HostLimiter) Option {
	return func(s *SearchIndexService) {
		s.limiter = limiter
	}
}

// NewSearchIndexService creates a new SearchIndexService.
func NewSearchIndexService(opts ...Option) *SearchIndexService {
	s := &SearchIndexService{
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch retrieves and parses the search index for the entity addressed by
// key. A payload without a docs field is malformed and returns EINVALID.
func (s *SearchIndexService) Fetch(ctx context.Context, baseURL string, key backstage.EntityKey) (*backstage.SearchIndex, error) {
	endpoint := fmt.Sprintf("%s/static/docs/%s/%s/%s/search/search_index.json",
		strings.TrimSuffix(baseURL, "/"), key.Namespace, key.Kind, key.Name)

	if s.limiter != nil {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, backstage.Errorf(backstage.EINVALID, "invalid index URL: %v", err)
		}
		if err := s.limiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, backstage.Errorf(backstage.ENOTFOUND, "no search index for %s/%s/%s", key.Namespace, key.Kind, key.Name)
	case resp.StatusCode != http.StatusOK:
		return nil, backstage.Errorf(backstage.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// A nil Docs distinguishes a payload that omits the field entirely
	// from an index with zero entries.
	var payload struct {
		Docs *[]backstage.IndexEntry `json:"docs"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, backstage.Errorf(backstage.EINVALID, "parse search index: %v", err)
	}
	if payload.Docs == nil {
		return nil, backstage.Errorf(backstage.EINVALID, "search index missing docs field")
	}

	return &backstage.SearchIndex{Docs: *payload.Docs}, nil
}
