package config

import "time"

// Grocerfile represents the structure of the grocer.yaml configuration file.
type Grocerfile struct {
	Version                string                `yaml:"version"`
	Client                 ClientDTO             `yaml:"client"`
	Paths                  PathsDTO              `yaml:"paths"`
	InvalidateCachePerCall bool                  `yaml:"invalidateCachePerCall"`
	Verbose                bool                  `yaml:"verbose"`
	Loaders                map[string]*LoaderDTO `yaml:"loaders"`
}

// ClientDTO represents the content API client settings.
type ClientDTO struct {
	ProjectID         string        `yaml:"projectId"`
	Dataset           string        `yaml:"dataset"`
	APIVersion        string        `yaml:"apiVersion"`
	UseCDN            bool          `yaml:"useCdn"`
	Token             string        `yaml:"token"`
	TokenEnv          string        `yaml:"tokenEnv"`
	Host              string        `yaml:"host"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
}

// PathsDTO represents the base directories. Relative paths resolve against the config file.
type PathsDTO struct {
	Queries      string `yaml:"queries"`
	Cache        string `yaml:"cache"`
	Assets       string `yaml:"assets"`
	AssetsPublic string `yaml:"assetsPublic"`
}

// LoaderDTO represents a loader definition in the configuration.
type LoaderDTO struct {
	Query   string `yaml:"query"`
	Cache   *bool  `yaml:"cache"`
	Version string `yaml:"version"`
}
