// Package app implements the application layer for grocer.
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/grocer/internal/adapters/cachefs"   //nolint:depguard // Wired in app layer
	"go.trai.ch/grocer/internal/adapters/metrics"   //nolint:depguard // Wired in app layer
	"go.trai.ch/grocer/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/grocer/internal/core/domain"
	"go.trai.ch/grocer/internal/core/ports"
	"go.trai.ch/grocer/internal/engine/loader"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	tracer       ports.Tracer
	metrics      *metrics.Prometheus
	httpClient   *http.Client
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, log ports.Logger, tracer ports.Tracer, m *metrics.Prometheus) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		tracer:       tracer,
		metrics:      m,
	}
}

// WithHTTPClient sets the HTTP client used for content queries and asset downloads.
// This is primarily used for testing against local servers.
func (a *App) WithHTTPClient(c *http.Client) *App {
	a.httpClient = c
	return a
}

// Options are the settings shared by every command.
type Options struct {
	// ConfigPath is the configuration file, or a directory to search upwards from.
	ConfigPath string
	// PerCall forces the staleness check on every loader run.
	PerCall bool
	// Verbose logs cache hits and misses at info level.
	Verbose bool
}

// LoadOptions configuration for the Load method.
type LoadOptions struct {
	Options
	// OutDir receives one <name>.json file per loader when set.
	OutDir string
}

// StatusOptions configuration for the Status method.
type StatusOptions struct {
	Options
	// Check runs the staleness strategy and reports its verdict.
	Check bool
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Options
	// Assets also empties the asset directory.
	Assets bool
}

// StatusReport describes the cache of a project.
type StatusReport struct {
	CacheDir string
	Slots    []domain.CacheSlot
	// Checked is set when Stale holds a fresh staleness verdict.
	Checked bool
	Stale   bool
}

// LogConfigurer is implemented by loggers whose output can be tuned from flags.
type LogConfigurer interface {
	SetVerbose(verbose bool)
	SetJSON(enabled bool)
}

// ConfigureLogging applies the logging flags when the logger supports them.
func (a *App) ConfigureLogging(verbose, jsonLogs bool) {
	lc, ok := a.logger.(LogConfigurer)
	if !ok {
		return
	}
	lc.SetVerbose(verbose)
	lc.SetJSON(jsonLogs)
}

// EnableTracing exports finished spans as JSON to w until the returned function is called.
func (a *App) EnableTracing(w io.Writer) (func(context.Context) error, error) {
	shutdown, err := telemetry.InstallWriterExporter(w, false)
	if err != nil {
		return nil, err
	}
	return shutdown, nil
}

// WriteMetrics writes the collected metrics to path in the Prometheus text format.
func (a *App) WriteMetrics(path string) error {
	if a.metrics == nil {
		return nil
	}
	return a.metrics.WriteTextfile(path)
}

// Load runs the named loaders, or every declared loader when names is empty, concurrently.
func (a *App) Load(ctx context.Context, names []string, opts LoadOptions) (map[string]json.RawMessage, error) {
	project, err := a.loadProject(opts.Options)
	if err != nil {
		return nil, err
	}

	specs, err := selectLoaders(project, names)
	if err != nil {
		return nil, err
	}

	factory, err := a.newFactory(project, opts.Options)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	results := make(map[string]json.RawMessage, len(specs))

	g, ctx := errgroup.WithContext(ctx)
	for _, spec := range specs {
		g.Go(func() error {
			result, err := factory.Load(ctx, loader.Definition{
				QueryName:       spec.Name,
				Query:           spec.Query,
				CacheEnabled:    loader.Bool(spec.CacheEnabled),
				ExpectedVersion: spec.ExpectedVersion,
			})
			if err != nil {
				return err
			}
			mu.Lock()
			results[spec.Name] = result
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLoadFailed, err)
	}

	if opts.OutDir != "" {
		if err := writeResults(opts.OutDir, results); err != nil {
			return nil, err
		}
		a.logger.Info(fmt.Sprintf("wrote %d results to %s", len(results), opts.OutDir))
	}

	return results, nil
}

// Status lists the cache entries of the project.
func (a *App) Status(ctx context.Context, opts StatusOptions) (*StatusReport, error) {
	project, err := a.loadProject(opts.Options)
	if err != nil {
		return nil, err
	}

	slots, err := cachefs.NewStore(project.Paths.Cache, a.logger).List()
	if err != nil {
		return nil, err
	}

	report := &StatusReport{CacheDir: project.Paths.Cache, Slots: slots}
	if !opts.Check {
		return report, nil
	}

	factory, err := a.newFactory(project, opts.Options)
	if err != nil {
		return nil, err
	}
	stale, err := factory.PeekVerdict(ctx)
	if err != nil {
		return nil, err
	}
	report.Checked = true
	report.Stale = stale

	return report, nil
}

// Clean removes the cache entries and the staleness marker of the project.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	project, err := a.loadProject(opts.Options)
	if err != nil {
		return err
	}

	if err := cachefs.NewStore(project.Paths.Cache, a.logger).Clear(); err != nil {
		return err
	}
	a.logger.Info("removed cache entries from " + project.Paths.Cache)

	if !opts.Assets {
		return nil
	}
	if project.Paths.Assets == "" {
		return zerr.Wrap(domain.ErrMissingPaths, "asset paths are not configured")
	}
	if err := os.RemoveAll(project.Paths.Assets); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheCleanFailed.Error()), "path", project.Paths.Assets)
	}
	a.logger.Info("removed mirrored assets from " + project.Paths.Assets)

	return nil
}

// SaveAssets mirrors every URL and returns the public paths in order.
func (a *App) SaveAssets(ctx context.Context, urls []string, opts Options) ([]string, error) {
	project, err := a.loadProject(opts)
	if err != nil {
		return nil, err
	}

	factory, err := a.newFactory(project, opts)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(urls))
	g, ctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			public, err := factory.SaveAsset(ctx, u)
			if err != nil {
				return err
			}
			paths[i] = public
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return paths, nil
}

func (a *App) loadProject(opts Options) (*domain.Project, error) {
	path := opts.ConfigPath
	if path == "" {
		path = "."
	}
	project, err := a.configLoader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return project, nil
}

func (a *App) newFactory(project *domain.Project, opts Options) (*loader.Factory, error) {
	clientConfig := project.Client
	cfg := FactoryConfig{
		ClientConfig:           &clientConfig,
		Paths:                  project.Paths,
		InvalidateCachePerCall: project.InvalidateCachePerCall || opts.PerCall,
		Verbose:                project.Verbose || opts.Verbose,
		Logger:                 a.logger,
		Tracer:                 a.tracer,
		HTTPClient:             a.httpClient,
	}
	if a.metrics != nil {
		cfg.Metrics = a.metrics
	}
	return NewFactory(cfg)
}

func selectLoaders(project *domain.Project, names []string) ([]domain.LoaderSpec, error) {
	if len(names) == 0 {
		return project.Loaders, nil
	}

	specs := make([]domain.LoaderSpec, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		spec, ok := project.Loader(name)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrLoaderNotDefined, name), "query_name", name)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func writeResults(dir string, results map[string]json.RawMessage) error {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", dir)
	}

	for name, result := range results {
		var buf bytes.Buffer
		if err := json.Indent(&buf, result, "", "  "); err != nil {
			buf.Reset()
			buf.Write(result)
		}
		buf.WriteByte('\n')

		path := filepath.Join(dir, name+domain.CacheFileExt)
		if err := os.WriteFile(path, buf.Bytes(), domain.FilePerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write result"), "path", path)
		}
	}
	return nil
}
