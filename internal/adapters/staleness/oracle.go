// Package staleness provides the default staleness strategy based on a persisted update marker.
package staleness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/grocer/internal/core/domain"
	"go.trai.ch/grocer/internal/core/ports"
	"go.trai.ch/zerr"
)

// ProbeQuery selects the update timestamp of the most recently changed document.
// Drafts and system documents live under the "_." id prefix and are ignored.
const ProbeQuery = `*[!(_id in path("_.**"))] | order(_updatedAt desc)[0]._updatedAt`

var _ ports.StalenessStrategy = (*Oracle)(nil)

// Oracle compares the latest remote update timestamp with the marker file in the cache directory.
type Oracle struct {
	logger ports.Logger
}

// NewOracle creates a new Oracle.
func NewOracle(logger ports.Logger) *Oracle {
	return &Oracle{logger: logger}
}

// IsStale reports true when the remote content changed since the marker was written, or when
// no live timestamp could be obtained. It never returns an error.
// The marker is left untouched when opts.DryRun is set.
func (o *Oracle) IsStale(ctx context.Context, client ports.ContentClient, opts domain.StalenessOptions) (bool, error) {
	markerPath := domain.MarkerPath(opts.CacheDir)
	stored := o.readMarker(markerPath)

	latest, ok := o.latestUpdate(ctx, client)
	if !ok {
		o.logger.Debug("no live update timestamp, treating cache as stale")
		return true, nil
	}

	if latest == stored {
		return false, nil
	}

	o.logger.Debug(fmt.Sprintf("content updated at %s (marker %q), cache is stale", latest, stored))
	if opts.DryRun {
		return true, nil
	}
	if err := writeMarker(markerPath, latest); err != nil {
		o.logger.Warn(err.Error())
	}

	return true, nil
}

func (o *Oracle) readMarker(path string) string {
	//nolint:gosec // Path is constructed from the configured cache directory
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			o.logger.Warn(fmt.Sprintf("ignoring unreadable staleness marker %s: %v", path, err))
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (o *Oracle) latestUpdate(ctx context.Context, client ports.ContentClient) (string, bool) {
	raw, err := client.Fetch(ctx, ProbeQuery)
	if err != nil {
		o.logger.Warn(fmt.Sprintf("staleness probe failed: %v", err))
		return "", false
	}

	var ts string
	if err := json.Unmarshal(raw, &ts); err != nil {
		return "", false
	}

	return ts, ts != ""
}

func writeMarker(path, timestamp string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMarkerWriteFailed.Error()), "path", path)
	}
	if err := os.WriteFile(path, []byte(timestamp), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMarkerWriteFailed.Error()), "path", path)
	}
	return nil
}
