// Package asset mirrors remote assets into a local public directory.
package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/grocer/internal/core/domain"
	"go.trai.ch/grocer/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

var _ ports.AssetMirror = (*Mirror)(nil)

// Mirror downloads assets once and serves them from a public prefix.
type Mirror struct {
	dir        string
	publicPath string
	httpClient *http.Client
	logger     ports.Logger
	inflight   singleflight.Group
}

// NewMirror creates a Mirror writing into dir and returning paths under publicPath.
// A nil httpClient selects http.DefaultClient.
func NewMirror(dir, publicPath string, httpClient *http.Client, logger ports.Logger) *Mirror {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Mirror{
		dir:        dir,
		publicPath: strings.TrimRight(publicPath, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Dir returns the directory assets are written to.
func (m *Mirror) Dir() string {
	return m.dir
}

// Save downloads rawURL unless its destination already exists and returns the public path.
func (m *Mirror) Save(ctx context.Context, rawURL string) (string, error) {
	name, err := fileName(rawURL)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(m.dir, name)
	public := m.publicPath + "/" + name

	if _, statErr := os.Stat(dest); statErr == nil {
		return public, nil
	}

	// The shared transfer outlives any single caller. Each caller stops waiting
	// when its own context is done.
	ch := m.inflight.DoChan(dest, func() (any, error) {
		if _, statErr := os.Stat(dest); statErr == nil {
			return nil, nil
		}
		return nil, m.download(context.WithoutCancel(ctx), rawURL, dest)
	})

	select {
	case <-ctx.Done():
		return "", transportError(ctx.Err(), rawURL)
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return public, nil
	}
}

func (m *Mirror) download(ctx context.Context, rawURL, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create asset directory"), "path", m.dir)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return transportError(err, rawURL)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return transportError(err, rawURL)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return zerr.With(transportError(fmt.Errorf("unexpected status %s", resp.Status), rawURL), "status_code", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+"-*.part")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create asset file"), "path", dest)
	}
	tmpName := tmpFile.Name()

	// Remove the partial file unless it was renamed into place.
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	n, err := io.Copy(tmpFile, resp.Body)
	if err != nil {
		_ = tmpFile.Close()
		return transportError(err, rawURL)
	}

	if err := tmpFile.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write asset file"), "path", dest)
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write asset file"), "path", dest)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write asset file"), "path", dest)
	}

	if m.logger != nil {
		m.logger.Debug(fmt.Sprintf("mirrored %s (%d bytes) to %s", rawURL, n, dest))
	}

	return nil
}

func fileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", zerr.With(fmt.Errorf("%w: %w", domain.ErrInvalidAssetURL, err), "url", rawURL)
	}

	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" || name == ".." {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidAssetURL, "url has no file name"), "url", rawURL)
	}

	return name, nil
}

func transportError(err error, rawURL string) error {
	return zerr.With(fmt.Errorf("%w: %w", domain.ErrAssetTransport, err), "url", rawURL)
}
