package ports

import (
	"encoding/json"

	"go.trai.ch/grocer/internal/core/domain"
)

// CacheStore persists one query result per query name.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Read returns the cached result for name if it is usable under opts.
	// Missing, stale, corrupt or mismatching entries are reported as a miss, never as an error.
	Read(name string, opts domain.ReadOptions) (json.RawMessage, bool)

	// Write replaces the entry for name.
	Write(name string, entry domain.CacheEntry) error

	// List describes every persisted entry, sorted by name.
	List() ([]domain.CacheSlot, error)

	// Clear removes every persisted entry and the staleness marker.
	Clear() error
}
