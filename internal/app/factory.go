package app

import (
	"net/http"

	"go.trai.ch/grocer/internal/adapters/asset"     //nolint:depguard // Wired in app layer
	"go.trai.ch/grocer/internal/adapters/cachefs"   //nolint:depguard // Wired in app layer
	"go.trai.ch/grocer/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/grocer/internal/adapters/metrics"   //nolint:depguard // Wired in app layer
	"go.trai.ch/grocer/internal/adapters/queryfs"   //nolint:depguard // Wired in app layer
	"go.trai.ch/grocer/internal/adapters/sanity"    //nolint:depguard // Wired in app layer
	"go.trai.ch/grocer/internal/adapters/staleness" //nolint:depguard // Wired in app layer
	"go.trai.ch/grocer/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/grocer/internal/core/domain"
	"go.trai.ch/grocer/internal/core/ports"
	"go.trai.ch/grocer/internal/engine/loader"
	"go.trai.ch/zerr"
)

// FactoryConfig configures a loader factory. It is read once by NewFactory.
type FactoryConfig struct {
	// Client performs the remote queries. Exactly one of Client and ClientConfig is required.
	Client ports.ContentClient
	// ClientConfig builds an HTTP content client when Client is nil.
	ClientConfig *domain.ClientConfig
	// Paths are the base directories. Each is only needed by the feature using it.
	Paths domain.Paths
	// InvalidateCachePerCall runs the staleness strategy on every cached run.
	InvalidateCachePerCall bool
	// Staleness decides whether the cache is stale. Nil selects the marker oracle.
	Staleness ports.StalenessStrategy
	// Verbose logs cache hits and misses at info level.
	Verbose bool

	Logger  ports.Logger
	Tracer  ports.Tracer
	Metrics ports.Metrics
	// HTTPClient is used by the built content client and the asset mirror.
	HTTPClient *http.Client
}

// NewFactory validates cfg and assembles a loader factory with the filesystem cache,
// the query file resolver and, when an asset directory is configured, the asset mirror.
func NewFactory(cfg FactoryConfig) (*loader.Factory, error) {
	if cfg.Paths.IsZero() {
		return nil, domain.ErrMissingPaths
	}

	switch {
	case cfg.Client != nil && cfg.ClientConfig != nil:
		return nil, domain.ErrConflictingClient
	case cfg.Client == nil && cfg.ClientConfig == nil:
		return nil, domain.ErrMissingClient
	}

	log := cfg.Logger
	if log == nil {
		log = logger.New()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = telemetry.NewNoOpTracer()
	}
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NoOp{}
	}

	client := cfg.Client
	if client == nil {
		c, err := sanity.NewClient(*cfg.ClientConfig, cfg.HTTPClient)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to create content client")
		}
		client = c
	}

	strategy := cfg.Staleness
	if strategy == nil {
		strategy = staleness.NewOracle(log)
	}

	var mirror ports.AssetMirror
	if cfg.Paths.Assets != "" {
		mirror = asset.NewMirror(cfg.Paths.Assets, cfg.Paths.AssetsPublic, cfg.HTTPClient, log)
	}

	return loader.New(loader.Deps{
		Client:    client,
		Store:     cachefs.NewStore(cfg.Paths.Cache, log),
		Resolver:  queryfs.NewResolver(cfg.Paths.Queries),
		Staleness: strategy,
		Assets:    mirror,
		Logger:    log,
		Tracer:    tracer,
		Metrics:   recorder,
	}, loader.Options{
		CacheDir:               cfg.Paths.Cache,
		InvalidateCachePerCall: cfg.InvalidateCachePerCall,
		Verbose:                cfg.Verbose,
	})
}
