// Package config provides the configuration loader for grocer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/grocer/internal/core/domain"
	"go.trai.ch/grocer/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const defaultQueriesDir = "queries"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	// Getenv looks up environment variables referenced by tokenEnv. Defaults to os.Getenv.
	Getenv func(string) string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Getenv: os.Getenv}
}

// Load reads the configuration. A path to a file is used directly; a directory is the
// starting point of an upward search for grocer.yaml.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var file Grocerfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	return l.buildProject(configPath, &file)
}

func findConfiguration(start string) (string, error) {
	info, err := os.Stat(start)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", start)
	}
	if !info.IsDir() {
		return filepath.Abs(start)
	}

	currentDir, err := filepath.Abs(start)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no configuration"), "cwd", start)
}

func (l *Loader) buildProject(configPath string, file *Grocerfile) (*domain.Project, error) {
	root := filepath.Dir(configPath)

	project := &domain.Project{
		ConfigPath:             configPath,
		Root:                   root,
		Client:                 l.buildClient(&file.Client),
		InvalidateCachePerCall: file.InvalidateCachePerCall,
		Verbose:                file.Verbose,
		Paths: domain.Paths{
			Queries:      resolvePath(root, file.Paths.Queries, defaultQueriesDir),
			Cache:        resolvePath(root, file.Paths.Cache, domain.DefaultCachePath()),
			Assets:       resolvePath(root, file.Paths.Assets, ""),
			AssetsPublic: file.Paths.AssetsPublic,
		},
	}

	names := make([]string, 0, len(file.Loaders))
	for name := range file.Loaders {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := validateLoaderName(name); err != nil {
			return nil, err
		}

		spec := domain.LoaderSpec{Name: name, CacheEnabled: true}
		if dto := file.Loaders[name]; dto != nil {
			spec.Query = dto.Query
			spec.ExpectedVersion = dto.Version
			if dto.Cache != nil {
				spec.CacheEnabled = *dto.Cache
			}
		}
		project.Loaders = append(project.Loaders, spec)
	}

	return project, nil
}

func (l *Loader) buildClient(dto *ClientDTO) domain.ClientConfig {
	token := dto.Token
	if token == "" && dto.TokenEnv != "" {
		getenv := l.Getenv
		if getenv == nil {
			getenv = os.Getenv
		}
		token = getenv(dto.TokenEnv)
		if token == "" {
			l.Logger.Warn(fmt.Sprintf("environment variable %s is empty, querying without a token", dto.TokenEnv))
		}
	}

	return domain.ClientConfig{
		ProjectID:         dto.ProjectID,
		Dataset:           dto.Dataset,
		APIVersion:        dto.APIVersion,
		UseCDN:            dto.UseCDN,
		Token:             token,
		Host:              dto.Host,
		Timeout:           dto.Timeout,
		RequestsPerSecond: dto.RequestsPerSecond,
	}
}

// resolvePath resolves configured against root, falling back to def when it is empty.
// An empty def leaves an unset path empty.
func resolvePath(root, configured, def string) string {
	if configured == "" {
		configured = def
	}
	if configured == "" {
		return ""
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(root, configured))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

// validateLoaderName checks that a loader name can be used as a cache file name.
func validateLoaderName(name string) error {
	if !domain.ValidQueryName(name) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidLoaderName, "invalid loader name"), "loader", name)
	}
	return nil
}
