// Package queryfs resolves loader queries from inline strings or query files.
package queryfs

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/grocer/internal/core/domain"
	"go.trai.ch/grocer/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.QueryResolver = (*Resolver)(nil)

// Resolver implements the QueryResolver interface on top of a query directory.
type Resolver struct {
	dir string
}

// NewResolver creates a new Resolver reading <dir>/<name>.groq files.
func NewResolver(dir string) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve returns query when it is set, otherwise the full contents of the named query file.
func (r *Resolver) Resolve(queryName, query string) (string, error) {
	if query != "" {
		return query, nil
	}

	if queryName == "" || r.dir == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrQueryNotFound, "no inline query and no query file"), "query_name", queryName)
	}

	path := domain.QueryFilePath(r.dir, queryName)
	//nolint:gosec // Path is constructed from the configured query directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(zerr.Wrap(domain.ErrQueryNotFound, "query file missing"), "path", path)
		}
		return "", zerr.With(zerr.Wrap(err, "failed to read query file"), "path", path)
	}

	return string(data), nil
}
