package loader

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/grocer/internal/core/domain"
	"go.trai.ch/grocer/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

const verdictKey = "verdict"

// Coordinator memoizes the staleness verdict of one factory.
//
// In check-once mode the strategy runs at most once successfully per coordinator and
// concurrent first callers share that single invocation. In per-call mode every call
// invokes the strategy.
type Coordinator struct {
	strategy ports.StalenessStrategy
	client   ports.ContentClient
	opts     domain.StalenessOptions
	perCall  bool
	metrics  ports.Metrics

	mu    sync.Mutex
	known bool
	stale bool
	group singleflight.Group
}

// NewCoordinator creates a Coordinator for strategy.
func NewCoordinator(
	strategy ports.StalenessStrategy,
	client ports.ContentClient,
	opts domain.StalenessOptions,
	perCall bool,
	metrics ports.Metrics,
) *Coordinator {
	return &Coordinator{
		strategy: strategy,
		client:   client,
		opts:     opts,
		perCall:  perCall,
		metrics:  metrics,
	}
}

// Verdict reports whether the cache must be bypassed.
// Strategy errors reach every waiting caller and are not memoized.
func (c *Coordinator) Verdict(ctx context.Context) (bool, error) {
	if c.perCall {
		return c.check(ctx)
	}

	if stale, ok := c.memo(); ok {
		return stale, nil
	}

	v, err, _ := c.group.Do(verdictKey, func() (any, error) {
		// A flight that finished between memo() and Do already recorded the verdict.
		if stale, ok := c.memo(); ok {
			return stale, nil
		}

		stale, err := c.check(ctx)
		if err != nil {
			return false, err
		}

		c.mu.Lock()
		c.known = true
		c.stale = stale
		c.mu.Unlock()

		return stale, nil
	})
	if err != nil {
		return false, err
	}

	return v.(bool), nil
}

// Peek reports the verdict without memoizing it or letting the strategy persist state.
// A verdict already memoized by this coordinator is returned as is.
func (c *Coordinator) Peek(ctx context.Context) (bool, error) {
	if !c.perCall {
		if stale, ok := c.memo(); ok {
			return stale, nil
		}
	}

	opts := c.opts
	opts.DryRun = true
	stale, err := c.strategy.IsStale(ctx, c.client, opts)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrStalenessCheckFailed, err)
	}
	return stale, nil
}

func (c *Coordinator) memo() (stale, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale, c.known
}

func (c *Coordinator) check(ctx context.Context) (bool, error) {
	stale, err := c.strategy.IsStale(ctx, c.client, c.opts)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrStalenessCheckFailed, err)
	}
	c.metrics.ObserveStaleness(stale)
	return stale, nil
}
