package domain

import (
	"path/filepath"
	"regexp"
)

const (
	// GrocerDirName is the name of the internal workspace directory.
	GrocerDirName = ".grocer"

	// CacheDirName is the name of the query cache directory.
	CacheDirName = "cache"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "grocer.yaml"

	// MarkerFileName is the name of the staleness marker file inside the cache directory.
	MarkerFileName = "latest-update.txt"

	// QueryFileExt is the extension of query files inside the queries directory.
	QueryFileExt = ".groq"

	// CacheFileExt is the extension of cache entries inside the cache directory.
	CacheFileExt = ".json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// queryNameRegex keeps query names to a single path segment.
var queryNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-][a-zA-Z0-9._-]*$`)

// ValidQueryName reports whether name can key a cache entry and a query file.
func ValidQueryName(name string) bool {
	return queryNameRegex.MatchString(name)
}

// DefaultCachePath returns the default query cache directory.
// It joins .grocer and cache.
func DefaultCachePath() string {
	return filepath.Join(GrocerDirName, CacheDirName)
}

// MarkerPath returns the staleness marker location for a cache directory.
func MarkerPath(cacheDir string) string {
	return filepath.Join(cacheDir, MarkerFileName)
}

// CacheEntryPath returns the cache entry location for a query name.
func CacheEntryPath(cacheDir, queryName string) string {
	return filepath.Join(cacheDir, queryName+CacheFileExt)
}

// QueryFilePath returns the query file location for a query name.
func QueryFilePath(queryDir, queryName string) string {
	return filepath.Join(queryDir, queryName+QueryFileExt)
}
