package loader_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/grocer/internal/core/domain"
	"go.trai.ch/grocer/internal/core/ports"
	"go.trai.ch/grocer/internal/core/ports/mocks"
	"go.trai.ch/grocer/internal/engine/loader"
	"go.uber.org/mock/gomock"
)

func TestCoordinator_CheckOnceCoalescesConcurrentCallers(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockContentClient(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveStaleness(true).Times(1)

	var calls atomic.Int32
	release := make(chan struct{})
	strategy := ports.StalenessFunc(func(context.Context, ports.ContentClient, domain.StalenessOptions) (bool, error) {
		calls.Add(1)
		<-release
		return true, nil
	})

	coord := loader.NewCoordinator(strategy, client, domain.StalenessOptions{CacheDir: "cache"}, false, metrics)

	const callers = 16
	var wg sync.WaitGroup
	verdicts := make([]bool, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			verdicts[i], errs[i] = coord.Verdict(context.Background())
		}()
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := range callers {
		require.NoError(t, errs[i])
		assert.True(t, verdicts[i])
	}

	// Later callers reuse the memoized verdict.
	stale, err := coord.Verdict(context.Background())
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCoordinator_PerCallRunsStrategyEveryTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockContentClient(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveStaleness(gomock.Any()).Times(2)

	var calls atomic.Int32
	strategy := ports.StalenessFunc(func(context.Context, ports.ContentClient, domain.StalenessOptions) (bool, error) {
		return calls.Add(1) == 1, nil
	})

	coord := loader.NewCoordinator(strategy, client, domain.StalenessOptions{}, true, metrics)

	first, err := coord.Verdict(context.Background())
	require.NoError(t, err)
	second, err := coord.Verdict(context.Background())
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCoordinator_PassesClientAndOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockContentClient(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveStaleness(false)

	strategy := mocks.NewMockStalenessStrategy(ctrl)
	strategy.EXPECT().
		IsStale(gomock.Any(), client, domain.StalenessOptions{CacheDir: "/tmp/cache"}).
		Return(false, nil)

	coord := loader.NewCoordinator(strategy, client, domain.StalenessOptions{CacheDir: "/tmp/cache"}, false, metrics)

	stale, err := coord.Verdict(context.Background())
	require.NoError(t, err)
	assert.False(t, stale)
}

func TestCoordinator_ErrorsAreSharedAndNotMemoized(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockContentClient(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveStaleness(false).Times(1)

	boom := errors.New("probe exploded")
	var calls atomic.Int32
	strategy := ports.StalenessFunc(func(context.Context, ports.ContentClient, domain.StalenessOptions) (bool, error) {
		if calls.Add(1) == 1 {
			return false, boom
		}
		return false, nil
	})

	coord := loader.NewCoordinator(strategy, client, domain.StalenessOptions{}, false, metrics)

	_, err := coord.Verdict(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrStalenessCheckFailed)
	require.ErrorIs(t, err, boom)

	stale, err := coord.Verdict(context.Background())
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCoordinator_PeekDoesNotPersistOrMemoize(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockContentClient(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveStaleness(false).Times(1)

	var dryRuns []bool
	strategy := ports.StalenessFunc(func(_ context.Context, _ ports.ContentClient, opts domain.StalenessOptions) (bool, error) {
		dryRuns = append(dryRuns, opts.DryRun)
		return len(dryRuns) == 1, nil
	})

	coord := loader.NewCoordinator(strategy, client, domain.StalenessOptions{CacheDir: "cache"}, false, metrics)

	stale, err := coord.Peek(context.Background())
	require.NoError(t, err)
	assert.True(t, stale)

	// Peeking left nothing memoized, so the first verdict runs the strategy for real.
	stale, err = coord.Verdict(context.Background())
	require.NoError(t, err)
	assert.False(t, stale)

	// Once memoized, peeking reuses the verdict.
	stale, err = coord.Peek(context.Background())
	require.NoError(t, err)
	assert.False(t, stale)

	assert.Equal(t, []bool{true, false}, dryRuns)
}
