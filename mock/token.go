package mock

import (
	"context"

	"github.com/michaeldistler/backstage"
)

var _ backstage.TokenService = (*TokenService)(nil)

// TokenService is a mock implementation of backstage.TokenService.
type TokenService struct {
	TokenFn func(ctx context.Context) (string, error)
}

func (s *TokenService) Token(ctx context.Context) (string, error) {
	return s.TokenFn(ctx)
}
