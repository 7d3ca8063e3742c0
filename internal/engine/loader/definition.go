package loader

import (
	"encoding/json"

	"go.trai.ch/grocer/internal/core/ports"
	"go.trai.ch/zerr"
)

// Definition describes one loader.
type Definition struct {
	// QueryName keys the cache slot and names the query file when Query is empty.
	QueryName string
	// Query is the literal query text. It takes precedence over the query file.
	Query string
	// Transform reshapes the result. Nil returns the result as is.
	Transform ports.Transform
	// CacheEnabled defaults to true when nil.
	CacheEnabled *bool
	// ExpectedVersion pins the cache entry to a manual version tag.
	ExpectedVersion string
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

func (d *Definition) cacheEnabled() bool {
	return d.CacheEnabled == nil || *d.CacheEnabled
}

func (d *Definition) label() string {
	if d.QueryName != "" {
		return d.QueryName
	}
	return "<inline>"
}

// Decode unmarshals a loader result into T.
func Decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, zerr.Wrap(err, "failed to decode query result")
	}
	return v, nil
}
