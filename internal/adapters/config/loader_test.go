package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/grocer/internal/adapters/config"
	"go.trai.ch/grocer/internal/core/domain"
	"go.trai.ch/grocer/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const fullConfig = `
version: "1"
client:
  projectId: abc123
  dataset: production
  apiVersion: "2023-05-03"
  useCdn: true
  tokenEnv: SANITY_TOKEN
  timeout: 15s
  requestsPerSecond: 10
paths:
  queries: content/queries
  cache: .cache/grocer
  assets: public/assets
  assetsPublic: /assets
invalidateCachePerCall: true
verbose: true
loaders:
  settings:
    query: "*[_type == 'settings'][0]"
  posts:
    version: "2024-05"
  drafts:
    cache: false
`

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func newLoader(t *testing.T, env map[string]string) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	loader := config.NewLoader(mockLogger)
	loader.Getenv = func(key string) string { return env[key] }
	return loader, mockLogger
}

func TestLoader_Load_Full(t *testing.T) {
	loader, _ := newLoader(t, map[string]string{"SANITY_TOKEN": "secret"})
	rootDir := t.TempDir()
	configPath := createFile(t, rootDir, domain.ConfigFileName, fullConfig)

	project, err := loader.Load(rootDir)
	require.NoError(t, err)

	assert.Equal(t, configPath, project.ConfigPath)
	assert.Equal(t, rootDir, project.Root)
	assert.True(t, project.InvalidateCachePerCall)
	assert.True(t, project.Verbose)

	assert.Equal(t, domain.ClientConfig{
		ProjectID:         "abc123",
		Dataset:           "production",
		APIVersion:        "2023-05-03",
		UseCDN:            true,
		Token:             "secret",
		Timeout:           15 * time.Second,
		RequestsPerSecond: 10,
	}, project.Client)

	assert.Equal(t, domain.Paths{
		Queries:      filepath.Join(rootDir, "content", "queries"),
		Cache:        filepath.Join(rootDir, ".cache", "grocer"),
		Assets:       filepath.Join(rootDir, "public", "assets"),
		AssetsPublic: "/assets",
	}, project.Paths)

	require.Len(t, project.Loaders, 3)
	assert.Equal(t, domain.LoaderSpec{Name: "drafts", CacheEnabled: false}, project.Loaders[0])
	assert.Equal(t, domain.LoaderSpec{Name: "posts", CacheEnabled: true, ExpectedVersion: "2024-05"}, project.Loaders[1])
	assert.Equal(t, domain.LoaderSpec{Name: "settings", CacheEnabled: true, Query: "*[_type == 'settings'][0]"}, project.Loaders[2])

	spec, ok := project.Loader("posts")
	require.True(t, ok)
	assert.Equal(t, "2024-05", spec.ExpectedVersion)
	_, ok = project.Loader("missing")
	assert.False(t, ok)
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader, _ := newLoader(t, nil)
	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, `
client:
  projectId: abc123
  dataset: production
loaders:
  posts:
`)

	project, err := loader.Load(rootDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(rootDir, "queries"), project.Paths.Queries)
	assert.Equal(t, filepath.Join(rootDir, domain.GrocerDirName, domain.CacheDirName), project.Paths.Cache)
	assert.Empty(t, project.Paths.Assets)
	assert.False(t, project.InvalidateCachePerCall)
	require.Len(t, project.Loaders, 1)
	assert.True(t, project.Loaders[0].CacheEnabled)
}

func TestLoader_Load_WalksUp(t *testing.T) {
	loader, _ := newLoader(t, nil)
	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "client:\n  dataset: production\n")

	nested := filepath.Join(rootDir, "src", "pages")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	project, err := loader.Load(nested)
	require.NoError(t, err)
	assert.Equal(t, rootDir, project.Root)
}

func TestLoader_Load_ExplicitFile(t *testing.T) {
	loader, _ := newLoader(t, nil)
	rootDir := t.TempDir()
	configPath := createFile(t, rootDir, "grocer.staging.yaml", "client:\n  dataset: staging\n")

	project, err := loader.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, project.ConfigPath)
	assert.Equal(t, "staging", project.Client.Dataset)
}

func TestLoader_Load_AbsolutePaths(t *testing.T) {
	loader, _ := newLoader(t, nil)
	rootDir := t.TempDir()
	cacheDir := filepath.Join(t.TempDir(), "shared-cache")
	createFile(t, rootDir, domain.ConfigFileName, "paths:\n  cache: "+cacheDir+"\n")

	project, err := loader.Load(rootDir)
	require.NoError(t, err)
	assert.Equal(t, cacheDir, project.Paths.Cache)
}

func TestLoader_Load_InlineToken(t *testing.T) {
	loader, _ := newLoader(t, map[string]string{"SANITY_TOKEN": "from-env"})
	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "client:\n  token: inline\n  tokenEnv: SANITY_TOKEN\n")

	project, err := loader.Load(rootDir)
	require.NoError(t, err)
	assert.Equal(t, "inline", project.Client.Token)
}

func TestLoader_Load_MissingTokenEnvWarns(t *testing.T) {
	loader, mockLogger := newLoader(t, nil)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "client:\n  tokenEnv: SANITY_TOKEN\n")

	project, err := loader.Load(rootDir)
	require.NoError(t, err)
	assert.Empty(t, project.Client.Token)
}

func TestLoader_Load_NotFound(t *testing.T) {
	loader, _ := newLoader(t, nil)

	_, err := loader.Load(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigNotFound))
}

func TestLoader_Load_MissingPath(t *testing.T) {
	loader, _ := newLoader(t, nil)

	_, err := loader.Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrConfigReadFailed.Error())
}

func TestLoader_Load_ParseError(t *testing.T) {
	loader, _ := newLoader(t, nil)
	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "loaders: [unclosed\n")

	_, err := loader.Load(rootDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrConfigParseFailed.Error())
}

func TestLoader_Load_InvalidLoaderName(t *testing.T) {
	for _, name := range []string{"../escape", "a/b", ".hidden", "with space"} {
		t.Run(name, func(t *testing.T) {
			loader, _ := newLoader(t, nil)
			rootDir := t.TempDir()
			createFile(t, rootDir, domain.ConfigFileName, "loaders:\n  \""+name+"\":\n")

			_, err := loader.Load(rootDir)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidLoaderName))
		})
	}
}
