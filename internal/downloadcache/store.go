package downloadcache

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/Diogo1457/happy-audio/internal/fileutil"
	"github.com/Diogo1457/happy-audio/internal/logging"
	"github.com/Diogo1457/happy-audio/internal/media"
	"github.com/Diogo1457/happy-audio/internal/services"
)

// Capacity is the maximum number of cached downloads.
const Capacity = 2

const stage = "download_cache"

// Store manages the cache directory and its index file.
type Store struct {
	dir       string
	indexPath string
	logger    *slog.Logger

	mu   sync.Mutex
	lock *flock.Flock
}

// Open creates the cache directory and an empty index when absent. Calling it
// again on an initialized cache changes nothing.
func Open(dir, indexPath string, logger *slog.Logger) (*Store, error) {
	dir = strings.TrimSpace(dir)
	indexPath = strings.TrimSpace(indexPath)
	if dir == "" || indexPath == "" {
		return nil, services.Wrap(services.ErrConfiguration, stage, "open", "cache directory and index path are required", nil)
	}
	s := &Store{
		dir:       dir,
		indexPath: indexPath,
		logger:    logging.NewComponentLogger(logger, "downloadcache"),
		lock:      flock.New(indexPath + ".lock"),
	}
	if err := s.Initialize(); err != nil {
		return nil, err
	}
	return s, nil
}

// Initialize creates the cache directory, the index parent, and an empty index.
func (s *Store) Initialize() error {
	for _, dir := range []string{s.dir, filepath.Dir(s.indexPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Wrap(services.ErrCacheFile, stage, "initialize", "create "+dir, err)
		}
	}
	return s.withLock(func() error {
		if _, err := os.Stat(s.indexPath); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrCacheFile, stage, "initialize", "stat index", err)
		}
		s.logger.Debug("creating empty cache index", logging.String("path", s.indexPath))
		return s.write(&index{})
	})
}

// Dir returns the cache directory.
func (s *Store) Dir() string { return s.dir }

// IndexPath returns the index file location.
func (s *Store) IndexPath() string { return s.indexPath }

// FilePath returns the canonical <dir>/<id>.<ext> location for a download.
func (s *Store) FilePath(id string, kind media.Kind) string {
	return filepath.Join(s.dir, FileName(id, kind))
}

// Lookup returns the cached path for id and kind when the index holds the key
// and its file still exists. A stale entry is reported as a miss and left in
// place for Prune.
func (s *Store) Lookup(id string, kind media.Kind) (string, bool, error) {
	var (
		path  string
		found bool
	)
	err := s.withLock(func() error {
		ix, err := s.read()
		if err != nil {
			return err
		}
		file, ok := ix.get(Key(id, kind))
		if !ok {
			return nil
		}
		candidate := s.resolve(file)
		if !fileutil.Exists(candidate) {
			s.logger.Debug("cache entry is stale",
				logging.String(logging.FieldRemoteID, id),
				logging.String(logging.FieldKind, kind.String()),
				logging.String("path", candidate))
			return nil
		}
		path, found = candidate, true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return path, found, nil
}

// Insert records localPath under (id, kind) as the newest entry, moving the
// file into the cache directory when it lives elsewhere. Entries beyond
// Capacity are evicted oldest first. A failed eviction delete is returned as
// ErrCacheFileRemoval after the index has been written and pruned; a failed
// index write aborts the insert.
func (s *Store) Insert(id string, kind media.Kind, localPath string) error {
	if strings.TrimSpace(id) == "" {
		return services.Wrap(services.ErrValidation, stage, "insert", "empty remote id", nil)
	}
	target := s.FilePath(id, kind)
	if localPath != "" && filepath.Clean(localPath) != target {
		if err := fileutil.MoveFile(localPath, target); err != nil {
			return services.Wrap(services.ErrCacheFile, stage, "insert", "move download into cache", err)
		}
	}

	return s.withLock(func() error {
		ix, err := s.read()
		if err != nil {
			return err
		}
		ix.put(Key(id, kind), FileName(id, kind))

		var removalErrs []error
		for ix.len() > Capacity {
			oldest, _ := ix.popOldest()
			oldestPath := s.resolve(oldest.file)
			if err := fileutil.RemoveIfExists(oldestPath); err != nil {
				logging.WarnWithContext(s.logger, "failed to delete evicted download", "cache_evict_failed",
					logging.String("key", oldest.key),
					logging.String("path", oldestPath),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "remove the file manually"),
					logging.String(logging.FieldImpact, "orphaned file left in cache directory"))
				removalErrs = append(removalErrs, fmt.Errorf("%s: %w", oldestPath, err))
				continue
			}
			s.logger.Info("evicted cached download",
				logging.String("key", oldest.key),
				logging.String(logging.FieldEventType, "cache_evicted"))
		}

		if err := s.write(ix); err != nil {
			return err
		}
		s.logger.Info("cached download",
			logging.String(logging.FieldRemoteID, id),
			logging.String(logging.FieldKind, kind.String()),
			logging.String("path", target),
			logging.String(logging.FieldEventType, "cache_inserted"))

		if _, err := s.prune(ix); err != nil {
			return err
		}
		if len(removalErrs) > 0 {
			return services.Wrap(services.ErrCacheFileRemoval, stage, "evict", "delete evicted file", errors.Join(removalErrs...))
		}
		return nil
	})
}

// Prune drops entries whose backing file is missing and returns how many were
// removed. The index is rewritten only when something changed.
func (s *Store) Prune() (int, error) {
	var removed int
	err := s.withLock(func() error {
		ix, err := s.read()
		if err != nil {
			return err
		}
		removed, err = s.prune(ix)
		return err
	})
	return removed, err
}

func (s *Store) prune(ix *index) (int, error) {
	kept := make([]indexEntry, 0, ix.len())
	for _, e := range ix.entries {
		if fileutil.Exists(s.resolve(e.file)) {
			kept = append(kept, e)
		}
	}
	removed := ix.len() - len(kept)
	if removed == 0 {
		return 0, nil
	}
	ix.entries = kept
	if err := s.write(ix); err != nil {
		return 0, err
	}
	s.logger.Info("pruned stale cache entries",
		logging.Int("removed", removed),
		logging.String(logging.FieldEventType, "cache_pruned"))
	return removed, nil
}

// Entries returns a snapshot of the index, oldest first.
func (s *Store) Entries() ([]Entry, error) {
	var entries []Entry
	err := s.withLock(func() error {
		ix, err := s.read()
		if err != nil {
			return err
		}
		entries = make([]Entry, 0, ix.len())
		for _, e := range ix.entries {
			entry := Entry{Key: e.key, File: e.file, Path: s.resolve(e.file)}
			if id, kind, ok := parseKey(e.key); ok {
				entry.ID, entry.Kind = id, kind
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

// Clear deletes every cached file and empties the index. It returns the number
// of files removed.
func (s *Store) Clear() (int, error) {
	var removed int
	err := s.withLock(func() error {
		ix, err := s.read()
		if err != nil {
			return err
		}
		var failures []error
		for _, e := range ix.entries {
			path := s.resolve(e.file)
			existed := fileutil.Exists(path)
			if err := fileutil.RemoveIfExists(path); err != nil {
				failures = append(failures, fmt.Errorf("%s: %w", path, err))
				continue
			}
			if existed {
				removed++
			}
		}
		if err := s.write(&index{}); err != nil {
			return err
		}
		if len(failures) > 0 {
			return services.Wrap(services.ErrCacheFileRemoval, stage, "clear", "delete cached file", errors.Join(failures...))
		}
		return nil
	})
	return removed, err
}

func (s *Store) resolve(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(s.dir, file)
}

// read never writes: a missing index reads as empty and a corrupt one fails.
func (s *Store) read() (*index, error) {
	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &index{}, nil
		}
		return nil, services.Wrap(services.ErrCacheFile, stage, "read index", s.indexPath, err)
	}
	ix, err := decodeIndex(bytes.NewReader(data))
	if err != nil {
		return nil, services.Wrap(services.ErrCacheFile, stage, "parse index", s.indexPath, err)
	}
	return ix, nil
}

func (s *Store) write(ix *index) error {
	data, err := ix.encode()
	if err != nil {
		return services.Wrap(services.ErrCacheFile, stage, "encode index", s.indexPath, err)
	}
	if err := fileutil.WriteFileAtomic(s.indexPath, data, 0o644); err != nil {
		return services.Wrap(services.ErrCacheFile, stage, "write index", s.indexPath, err)
	}
	return nil
}

func (s *Store) withLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return services.Wrap(services.ErrCacheFile, stage, "lock index", s.lock.Path(), err)
	}
	defer func() {
		_ = s.lock.Unlock()
	}()
	return fn()
}
