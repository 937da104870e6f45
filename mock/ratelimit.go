package mock

import (
	"context"

	"github.com/michaeldistler/backstage"
)

var _ backstage.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is a mock implementation of backstage.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
