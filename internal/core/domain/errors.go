package domain

import "go.trai.ch/zerr"

var (
	// ErrMissingPaths is returned when a loader factory is built without base paths.
	ErrMissingPaths = zerr.New("paths are required")

	// ErrMissingClient is returned when neither a client nor a client config is supplied.
	ErrMissingClient = zerr.New("either a client or a client config is required")

	// ErrConflictingClient is returned when both a client and a client config are supplied.
	ErrConflictingClient = zerr.New("client and client config are mutually exclusive")

	// ErrInvalidClientConfig is returned when a client config lacks a project id or dataset.
	ErrInvalidClientConfig = zerr.New("client config requires a project id and a dataset")

	// ErrCacheKeyRequired is returned when caching is enabled for a loader without a query name.
	ErrCacheKeyRequired = zerr.New("query name is required when caching is enabled")

	// ErrEmptyQuery is returned when the resolved query string is empty.
	ErrEmptyQuery = zerr.New("resolved query is empty")

	// ErrQueryNotFound is returned when neither an inline query nor a query file can be resolved.
	ErrQueryNotFound = zerr.New("query not found")

	// ErrFetchFailed is returned when the remote query API call fails.
	ErrFetchFailed = zerr.New("remote fetch failed")

	// ErrUnexpectedStatus is returned when the query API answers with a non-success status.
	ErrUnexpectedStatus = zerr.New("unexpected response status")

	// ErrResponseParseFailed is returned when a query API response cannot be decoded.
	ErrResponseParseFailed = zerr.New("failed to parse query response")

	// ErrStalenessCheckFailed is returned when a custom staleness strategy fails.
	ErrStalenessCheckFailed = zerr.New("staleness check failed")

	// ErrCacheReadFailed is returned when a cache entry exists but cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read cache entry")

	// ErrCacheUnmarshalFailed is returned when a cache entry is not valid JSON.
	ErrCacheUnmarshalFailed = zerr.New("failed to unmarshal cache entry")

	// ErrCacheMarshalFailed is returned when a cache entry cannot be encoded.
	ErrCacheMarshalFailed = zerr.New("failed to marshal cache entry")

	// ErrCacheWriteFailed is returned when a cache entry cannot be persisted.
	ErrCacheWriteFailed = zerr.New("failed to write cache entry")

	// ErrCacheCreateFailed is returned when the cache directory cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create cache directory")

	// ErrCacheCleanFailed is returned when cache entries cannot be removed.
	ErrCacheCleanFailed = zerr.New("failed to clean cache")

	// ErrMarkerWriteFailed is returned when the staleness marker cannot be written.
	ErrMarkerWriteFailed = zerr.New("failed to write staleness marker")

	// ErrAssetTransport is returned when downloading an asset fails.
	ErrAssetTransport = zerr.New("asset download failed")

	// ErrInvalidAssetURL is returned when an asset URL has no usable file name.
	ErrInvalidAssetURL = zerr.New("invalid asset url")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no config file can be found.
	ErrConfigNotFound = zerr.New("could not find " + ConfigFileName)

	// ErrLoaderNotDefined is returned when a requested loader is not declared in the config.
	ErrLoaderNotDefined = zerr.New("loader not defined")

	// ErrInvalidLoaderName is returned when a loader name cannot be used as a file name.
	ErrInvalidLoaderName = zerr.New("loader name can only contain alphanumeric characters, dots, hyphens and underscores")

	// ErrLoadFailed is returned when one or more loaders fail during a CLI run.
	ErrLoadFailed = zerr.New("load failed")
)
