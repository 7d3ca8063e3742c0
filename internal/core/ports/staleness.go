package ports

import (
	"context"

	"go.trai.ch/grocer/internal/core/domain"
)

// StalenessStrategy decides whether the cached data of a loader factory is out of date.
// A true verdict bypasses the cache.
//
//go:generate mockgen -source=staleness.go -destination=mocks/mock_staleness.go -package=mocks
type StalenessStrategy interface {
	IsStale(ctx context.Context, client ContentClient, opts domain.StalenessOptions) (bool, error)
}

// StalenessFunc adapts a plain function to a StalenessStrategy.
type StalenessFunc func(ctx context.Context, client ContentClient, opts domain.StalenessOptions) (bool, error)

// IsStale calls f.
func (f StalenessFunc) IsStale(ctx context.Context, client ContentClient, opts domain.StalenessOptions) (bool, error) {
	return f(ctx, client, opts)
}
