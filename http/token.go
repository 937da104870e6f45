package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/michaeldistler/backstage"
)

var _ backstage.TokenService = (*StaticTokenService)(nil)

// StaticTokenService issues a fixed, pre-configured service token.
type StaticTokenService struct {
	token string
}

// NewStaticTokenService creates a StaticTokenService for the given token.
// The empty token is valid and addresses catalogs that allow anonymous
// reads.
func NewStaticTokenService(token string) *StaticTokenService {
	return &StaticTokenService{token: token}
}

// Token returns the configured token.
func (s *StaticTokenService) Token(ctx context.Context) (string, error) {
	return s.token, nil
}

var _ backstage.TokenService = (*TokenClient)(nil)

// TokenClient obtains service tokens from an auth endpoint returning a
// JSON body of the form {"token": "..."}.
type TokenClient struct {
	client *http.Client
	url    string
}

// TokenClientOption configures a TokenClient.
type TokenClientOption func(*TokenClient)

// WithTokenHTTPClient overrides the HTTP client used for token requests.
func WithTokenHTTPClient(client *http.Client) TokenClientOption {
	return func(c *TokenClient) {
		c.client = client
	}
}

// NewTokenClient creates a TokenClient for the given auth endpoint URL.
func NewTokenClient(url string, opts ...TokenClientOption) *TokenClient {
	c := &TokenClient{
		client: http.DefaultClient,
		url:    url,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token requests a fresh token from the auth endpoint.
func (c *TokenClient) Token(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", backstage.Errorf(backstage.EUNAUTHORIZED, "token endpoint returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", backstage.Errorf(backstage.EINVALID, "parse token response: %v", err)
	}
	if payload.Token == "" {
		return "", backstage.Errorf(backstage.EUNAUTHORIZED, "token endpoint returned no token")
	}
	return payload.Token, nil
}
