package domain

// Project is the loaded grocer.yaml configuration.
type Project struct {
	// ConfigPath is the absolute path of the configuration file.
	ConfigPath string
	// Root is the directory relative paths were resolved against.
	Root string

	Client                 ClientConfig
	Paths                  Paths
	InvalidateCachePerCall bool
	Verbose                bool

	// Loaders are the declared loaders, sorted by name.
	Loaders []LoaderSpec
}

// LoaderSpec is a loader declared in the configuration file.
type LoaderSpec struct {
	Name            string
	Query           string
	CacheEnabled    bool
	ExpectedVersion string
}

// Loader returns the declared loader with the given name.
func (p *Project) Loader(name string) (LoaderSpec, bool) {
	for _, l := range p.Loaders {
		if l.Name == name {
			return l, true
		}
	}
	return LoaderSpec{}, false
}
