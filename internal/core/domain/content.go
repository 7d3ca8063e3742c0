// Package domain contains the core types of the content loader.
package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Paths holds the base directories a loader factory works with.
type Paths struct {
	// Queries is the directory holding <name>.groq query files.
	Queries string
	// Cache is the directory holding <name>.json cache entries and the staleness marker.
	Cache string
	// Assets is the directory mirrored assets are written to.
	Assets string
	// AssetsPublic is the public URL prefix mirrored assets are served under.
	AssetsPublic string
}

// IsZero reports whether no path is set at all.
func (p Paths) IsZero() bool {
	return p == Paths{}
}

// ClientConfig describes how to reach the content query API.
type ClientConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	UseCDN     bool
	Token      string
	// Host overrides the API host derived from ProjectID (self-hosted proxies, tests).
	Host string
	// Timeout bounds a single HTTP request. Zero selects the client default.
	Timeout time.Duration
	// RequestsPerSecond gates outgoing requests. Zero disables the gate.
	RequestsPerSecond float64
}

// CacheEntry is the persisted form of one cache slot.
type CacheEntry struct {
	Result  json.RawMessage `json:"result"`
	Version *string         `json:"version"`
	Query   string          `json:"query"`
}

// ReadOptions controls whether a persisted cache entry may be used.
type ReadOptions struct {
	// ExpectedVersion pins the entry to a manual version tag. Empty disables pinning.
	ExpectedVersion string
	// IsStale is the staleness verdict for the whole loader factory.
	IsStale bool
	// CurrentQuery is the query string about to be executed.
	CurrentQuery string
}

// CacheSlot describes a persisted cache entry for listings.
type CacheSlot struct {
	Name        string
	Version     string
	Fingerprint string
	Size        int64
	ModTime     time.Time
	Corrupt     bool
}

// StalenessOptions is handed to a staleness strategy.
type StalenessOptions struct {
	CacheDir string
	// DryRun reports the verdict without persisting anything, so a later
	// check still sees the same change.
	DryRun bool
}

// VersionPtr returns nil for an empty version and a pointer to v otherwise.
func VersionPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// Fingerprint returns a short stable digest of a query string for listings and logs.
// The cache itself compares the full query text.
func Fingerprint(query string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(query))
}
