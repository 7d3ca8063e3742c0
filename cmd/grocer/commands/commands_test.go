package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/grocer/cmd/grocer/commands"
	"go.trai.ch/grocer/internal/app"
	"go.trai.ch/grocer/internal/build"
	"go.trai.ch/grocer/internal/core/domain"
)

type mockApp struct {
	loadFunc    func(ctx context.Context, names []string, opts app.LoadOptions) (map[string]json.RawMessage, error)
	statusFunc  func(ctx context.Context, opts app.StatusOptions) (*app.StatusReport, error)
	cleanFunc   func(ctx context.Context, opts app.CleanOptions) error
	assetsFunc  func(ctx context.Context, urls []string, opts app.Options) ([]string, error)
	verbose     bool
	jsonLogs    bool
	traceWriter io.Writer
	traceStops  int
	metricsPath string
}

func (m *mockApp) Load(ctx context.Context, names []string, opts app.LoadOptions) (map[string]json.RawMessage, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, names, opts)
	}
	return map[string]json.RawMessage{}, nil
}

func (m *mockApp) Status(ctx context.Context, opts app.StatusOptions) (*app.StatusReport, error) {
	if m.statusFunc != nil {
		return m.statusFunc(ctx, opts)
	}
	return &app.StatusReport{}, nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.CleanOptions) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) SaveAssets(ctx context.Context, urls []string, opts app.Options) ([]string, error) {
	if m.assetsFunc != nil {
		return m.assetsFunc(ctx, urls, opts)
	}
	return nil, nil
}

func (m *mockApp) ConfigureLogging(verbose, jsonLogs bool) {
	m.verbose = verbose
	m.jsonLogs = jsonLogs
}

func (m *mockApp) EnableTracing(w io.Writer) (func(context.Context) error, error) {
	m.traceWriter = w
	return func(context.Context) error {
		m.traceStops++
		return nil
	}, nil
}

func (m *mockApp) WriteMetrics(path string) error {
	m.metricsPath = path
	return nil
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Load(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedNames []string
		var capturedOpts app.LoadOptions

		mock := &mockApp{
			loadFunc: func(_ context.Context, names []string, opts app.LoadOptions) (map[string]json.RawMessage, error) {
				capturedNames = names
				capturedOpts = opts
				return map[string]json.RawMessage{}, nil
			},
		}

		_, err := execute(t, mock, "load", "posts", "authors",
			"--config", "site/grocer.yaml", "--per-call", "--verbose", "--json-logs", "--out", "dist")
		require.NoError(t, err)

		assert.Equal(t, []string{"posts", "authors"}, capturedNames)
		assert.Equal(t, app.LoadOptions{
			Options: app.Options{ConfigPath: "site/grocer.yaml", PerCall: true, Verbose: true},
			OutDir:  "dist",
		}, capturedOpts)
		assert.True(t, mock.verbose)
		assert.True(t, mock.jsonLogs)
	})

	t.Run("prints results as one object", func(t *testing.T) {
		mock := &mockApp{
			loadFunc: func(context.Context, []string, app.LoadOptions) (map[string]json.RawMessage, error) {
				return map[string]json.RawMessage{
					"settings": json.RawMessage(`{"title":"Site"}`),
					"posts":    json.RawMessage(`[{"title":"Hello"}]`),
				}, nil
			},
		}

		out, err := execute(t, mock, "load")
		require.NoError(t, err)
		assert.JSONEq(t, `{"posts":[{"title":"Hello"}],"settings":{"title":"Site"}}`, out)
	})

	t.Run("returns error on load failure", func(t *testing.T) {
		mock := &mockApp{
			loadFunc: func(context.Context, []string, app.LoadOptions) (map[string]json.RawMessage, error) {
				return nil, domain.ErrLoadFailed
			},
		}

		_, err := execute(t, mock, "load", "posts")
		require.ErrorIs(t, err, domain.ErrLoadFailed)
	})
}

func TestCommands_Status(t *testing.T) {
	report := &app.StatusReport{
		CacheDir: "/project/.grocer/cache",
		Slots: []domain.CacheSlot{
			{
				Name:        "authors",
				Fingerprint: "0f1e2d3c4b5a6978",
				Size:        128,
				ModTime:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			},
			{
				Name:    "broken",
				Size:    9,
				ModTime: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
				Corrupt: true,
			},
			{
				Name:        "posts",
				Version:     "v2",
				Fingerprint: "a1b2c3d4e5f60718",
				Size:        2048,
				ModTime:     time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC),
			},
		},
		Checked: true,
		Stale:   true,
	}

	t.Setenv("NO_COLOR", "1")

	t.Run("lists slots and verdict", func(t *testing.T) {
		var captured app.StatusOptions
		mock := &mockApp{
			statusFunc: func(_ context.Context, opts app.StatusOptions) (*app.StatusReport, error) {
				captured = opts
				return report, nil
			},
		}

		out, err := execute(t, mock, "status", "--check")
		require.NoError(t, err)
		assert.True(t, captured.Check)

		g := goldie.New(t)
		g.Assert(t, "status", []byte(out))
	})

	t.Run("empty cache", func(t *testing.T) {
		mock := &mockApp{
			statusFunc: func(context.Context, app.StatusOptions) (*app.StatusReport, error) {
				return &app.StatusReport{CacheDir: "/project/.grocer/cache"}, nil
			},
		}

		out, err := execute(t, mock, "status")
		require.NoError(t, err)

		g := goldie.New(t)
		g.Assert(t, "status_empty", []byte(out))
	})
}

func TestCommands_Clean(t *testing.T) {
	var captured app.CleanOptions
	mock := &mockApp{
		cleanFunc: func(_ context.Context, opts app.CleanOptions) error {
			captured = opts
			return nil
		},
	}

	_, err := execute(t, mock, "clean", "--assets")
	require.NoError(t, err)
	assert.True(t, captured.Assets)
}

func TestCommands_Asset(t *testing.T) {
	t.Run("prints public paths", func(t *testing.T) {
		mock := &mockApp{
			assetsFunc: func(_ context.Context, urls []string, _ app.Options) ([]string, error) {
				assert.Equal(t, []string{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png"}, urls)
				return []string{"/assets/a.png", "/assets/b.png"}, nil
			},
		}

		out, err := execute(t, mock, "asset", "https://cdn.example.com/a.png", "https://cdn.example.com/b.png")
		require.NoError(t, err)
		assert.Equal(t, "/assets/a.png\n/assets/b.png\n", out)
	})

	t.Run("requires a url", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "asset")
		require.Error(t, err)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		mock := &mockApp{
			assetsFunc: func(context.Context, []string, app.Options) ([]string, error) {
				return nil, errors.New("simulated error")
			},
		}

		_, err := execute(t, mock, "asset", "https://cdn.example.com/a.png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_TracingAndMetrics(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "trace.json")
	metricsPath := filepath.Join(dir, "grocer.prom")

	mock := &mockApp{
		cleanFunc: func(context.Context, app.CleanOptions) error {
			return errors.New("clean failed")
		},
	}

	_, err := execute(t, mock, "clean", "--trace", tracePath, "--metrics-file", metricsPath)
	require.Error(t, err)

	assert.NotNil(t, mock.traceWriter)
	assert.Equal(t, 1, mock.traceStops)
	assert.Equal(t, metricsPath, mock.metricsPath)
	_, statErr := os.Stat(tracePath)
	require.NoError(t, statErr)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
}
