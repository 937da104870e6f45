package backstage

import "context"

// TokenService issues access credentials for backend-to-backend requests.
type TokenService interface {
	// Token returns a credential for authenticating catalog requests.
	// Returns EUNAUTHORIZED if credentials cannot be issued.
	Token(ctx context.Context) (string, error)
}
