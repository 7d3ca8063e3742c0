// Package cachefs implements the query cache as one JSON file per query name.
package cachefs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/grocer/internal/core/domain"
	"go.trai.ch/grocer/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStore = (*Store)(nil)

// Store implements ports.CacheStore on top of a cache directory.
type Store struct {
	dir    string
	logger ports.Logger
}

// NewStore creates a Store rooted at dir. The directory is created lazily on first write.
func NewStore(dir string, logger ports.Logger) *Store {
	return &Store{
		dir:    filepath.Clean(dir),
		logger: logger,
	}
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// Read returns the cached result for name when the entry is usable under opts.
func (s *Store) Read(name string, opts domain.ReadOptions) (json.RawMessage, bool) {
	path := domain.CacheEntryPath(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn(fmt.Sprintf("cache entry for %s is not accessible: %v", name, err))
		}
		return nil, false
	}

	// A pinned version overrides the automatic staleness verdict, so only
	// unpinned reads skip the file when the factory considers the cache stale.
	if opts.IsStale && opts.ExpectedVersion == "" {
		return nil, false
	}

	entry, err := load(path)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("ignoring cache entry for %s: %v", name, err))
		return nil, false
	}

	if entry.Query != opts.CurrentQuery {
		return nil, false
	}

	if opts.ExpectedVersion != "" {
		if entry.Version == nil || *entry.Version != opts.ExpectedVersion {
			return nil, false
		}
	}

	return compact(entry.Result), true
}

// Write replaces the entry for name with an atomic rename.
func (s *Store) Write(name string, entry domain.CacheEntry) error {
	if entry.Result == nil {
		entry.Result = json.RawMessage("null")
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error()), "query_name", name)
	}

	path := domain.CacheEntryPath(s.dir, name)
	if err := atomicWriteFile(path, data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}

	return nil
}

// List describes every entry in the cache directory, sorted by name.
func (s *Store) List() ([]domain.CacheSlot, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", s.dir)
	}

	slots := make([]domain.CacheSlot, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != domain.CacheFileExt {
			continue
		}

		info, infoErr := de.Info()
		if infoErr != nil {
			continue
		}

		slot := domain.CacheSlot{
			Name:    strings.TrimSuffix(de.Name(), domain.CacheFileExt),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}

		entry, loadErr := load(filepath.Join(s.dir, de.Name()))
		if loadErr != nil {
			slot.Corrupt = true
		} else {
			slot.Fingerprint = domain.Fingerprint(entry.Query)
			if entry.Version != nil {
				slot.Version = *entry.Version
			}
		}

		slots = append(slots, slot)
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Name < slots[j].Name
	})

	return slots, nil
}

// Clear removes every cache entry and the staleness marker.
func (s *Store) Clear() error {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrCacheCleanFailed.Error()), "path", s.dir)
	}

	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if filepath.Ext(name) != domain.CacheFileExt && name != domain.MarkerFileName {
			continue
		}
		path := filepath.Join(s.dir, name)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, domain.ErrCacheCleanFailed.Error()), "path", path)
		}
	}

	return nil
}

func load(path string) (*domain.CacheEntry, error) {
	//nolint:gosec // Path is constructed from the configured cache directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheReadFailed.Error())
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheUnmarshalFailed.Error())
	}

	return &entry, nil
}

func compact(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

// atomicWriteFile writes data to a file atomically by writing to a temp file and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheCreateFailed.Error())
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
