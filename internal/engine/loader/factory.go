// Package loader implements the cache-aware content loading engine.
//
// A Factory owns one content client, one cache store and one staleness coordinator.
// Units defined from the same factory share the staleness verdict and nothing else.
package loader

import (
	"context"
	"encoding/json"

	"go.trai.ch/grocer/internal/core/domain"
	"go.trai.ch/grocer/internal/core/ports"
	"go.trai.ch/zerr"
)

var errIncompleteDeps = zerr.New("store, resolver, staleness strategy, logger, tracer and metrics are required")

// Deps are the collaborators of a Factory. Assets is optional.
type Deps struct {
	Client    ports.ContentClient
	Store     ports.CacheStore
	Resolver  ports.QueryResolver
	Staleness ports.StalenessStrategy
	Assets    ports.AssetMirror
	Logger    ports.Logger
	Tracer    ports.Tracer
	Metrics   ports.Metrics
}

// Options are the factory-wide policies fixed at construction time.
type Options struct {
	// CacheDir is handed to the staleness strategy.
	CacheDir string
	// InvalidateCachePerCall runs the staleness strategy on every cached run.
	InvalidateCachePerCall bool
	// Verbose logs cache hits and misses at info level instead of debug.
	Verbose bool
}

// Factory builds loader units that share a staleness coordinator.
type Factory struct {
	client      ports.ContentClient
	store       ports.CacheStore
	resolver    ports.QueryResolver
	assets      ports.AssetMirror
	logger      ports.Logger
	tracer      ports.Tracer
	metrics     ports.Metrics
	coordinator *Coordinator
	verbose     bool
}

// New creates a Factory.
func New(deps Deps, opts Options) (*Factory, error) {
	switch {
	case deps.Client == nil:
		return nil, domain.ErrMissingClient
	case deps.Store == nil, deps.Resolver == nil, deps.Staleness == nil,
		deps.Logger == nil, deps.Tracer == nil, deps.Metrics == nil:
		return nil, errIncompleteDeps
	}

	return &Factory{
		client:   deps.Client,
		store:    deps.Store,
		resolver: deps.Resolver,
		assets:   deps.Assets,
		logger:   deps.Logger,
		tracer:   deps.Tracer,
		metrics:  deps.Metrics,
		coordinator: NewCoordinator(
			deps.Staleness,
			deps.Client,
			domain.StalenessOptions{CacheDir: opts.CacheDir},
			opts.InvalidateCachePerCall,
			deps.Metrics,
		),
		verbose: opts.Verbose,
	}, nil
}

// Define returns a unit for def. Validation happens when the unit runs.
func (f *Factory) Define(def Definition) *Unit {
	return &Unit{f: f, def: def}
}

// Load defines and runs def once.
func (f *Factory) Load(ctx context.Context, def Definition) (json.RawMessage, error) {
	return f.Define(def).Run(ctx)
}

// Verdict returns the staleness verdict under the factory's policy.
func (f *Factory) Verdict(ctx context.Context) (bool, error) {
	return f.coordinator.Verdict(ctx)
}

// PeekVerdict returns the staleness verdict without side effects, so inspecting the
// cache never hides a remote change from the next load.
func (f *Factory) PeekVerdict(ctx context.Context) (bool, error) {
	return f.coordinator.Peek(ctx)
}

// SaveAsset mirrors rawURL and returns its public path.
func (f *Factory) SaveAsset(ctx context.Context, rawURL string) (string, error) {
	if f.assets == nil {
		return "", zerr.Wrap(domain.ErrMissingPaths, "asset paths are not configured")
	}
	return f.assets.Save(ctx, rawURL)
}

// SaveOptionalAsset mirrors rawURL when it is set. A nil URL yields a nil path.
func (f *Factory) SaveOptionalAsset(ctx context.Context, rawURL *string) (*string, error) {
	if rawURL == nil {
		return nil, nil
	}
	public, err := f.SaveAsset(ctx, *rawURL)
	if err != nil {
		return nil, err
	}
	return &public, nil
}

func (f *Factory) logCache(msg string) {
	if f.verbose {
		f.logger.Info(msg)
		return
	}
	f.logger.Debug(msg)
}
