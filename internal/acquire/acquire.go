package acquire

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Diogo1457/happy-audio/internal/identity"
	"github.com/Diogo1457/happy-audio/internal/logging"
	"github.com/Diogo1457/happy-audio/internal/media"
	"github.com/Diogo1457/happy-audio/internal/services"
	"github.com/Diogo1457/happy-audio/internal/services/ytdlp"
)

const stageName = "acquire"

// Source is either a local path or a remote URL.
type Source struct {
	Path string
	URL  string
}

// IsRemote reports whether the source names a remote URL.
func (s Source) IsRemote() bool {
	return strings.TrimSpace(s.URL) != ""
}

// Cache is the subset of the download cache used during acquisition.
type Cache interface {
	Dir() string
	Lookup(id string, kind media.Kind) (string, bool, error)
	Insert(id string, kind media.Kind, localPath string) error
}

// Fetcher materializes a remote URL as a local file in destDir.
type Fetcher interface {
	Fetch(ctx context.Context, url, destDir, id string, kind media.Kind, overwrite bool, progress services.ProgressFunc) (ytdlp.Download, error)
}

// Result describes where the media came from.
type Result struct {
	Path      string
	RemoteID  string
	FromCache bool
	// Fallback is set when a cached video file serves an audio request.
	Fallback bool
	Download  *ytdlp.Download
}

// Stage resolves sources to local files.
type Stage struct {
	cache   Cache
	fetcher Fetcher
	logger  *slog.Logger
}

// New constructs an acquisition stage.
func New(cache Cache, fetcher Fetcher, logger *slog.Logger) *Stage {
	return &Stage{
		cache:   cache,
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "acquire"),
	}
}

// Acquire produces a local file for src. With useCache false the cache is
// never consulted, though a fresh download is still registered in it.
func (s *Stage) Acquire(ctx context.Context, src Source, kind media.Kind, useCache bool, progress services.ProgressFunc) (Result, error) {
	if !src.IsRemote() {
		return Result{Path: src.Path}, nil
	}

	id, err := identity.Resolve(src.URL)
	if err != nil {
		return Result{}, err
	}
	logger := logging.WithContext(ctx, s.logger).With(
		logging.String(logging.FieldRemoteID, id),
		logging.String(logging.FieldKind, kind.String()),
	)

	if useCache {
		if res, ok, err := s.fromCache(id, kind, logger); err != nil || ok {
			return res, err
		}
	}

	if s.fetcher == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, stageName, "fetch", "no fetcher configured", nil)
	}
	logger.Info("downloading remote media", logging.String(logging.FieldEventType, "fetch_started"))
	download, err := s.fetcher.Fetch(ctx, src.URL, s.cache.Dir(), id, kind, !useCache, progress)
	if err != nil {
		return Result{}, err
	}

	if err := s.cache.Insert(id, kind, download.Path); err != nil {
		if !errors.Is(err, services.ErrCacheFileRemoval) {
			return Result{}, err
		}
		logging.WarnWithContext(logger, "cache eviction left a file behind", "cache_evict_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the stale file from the cache directory"),
			logging.String(logging.FieldImpact, "disk space is not reclaimed"))
	}

	path, ok, err := s.cache.Lookup(id, kind)
	if err != nil || !ok {
		// The cache index is unusable or raced; the fetched file is still valid.
		path = download.Path
	}
	logger.Info("remote media ready",
		logging.String("path", path),
		logging.String("title", download.Title),
		logging.String(logging.FieldEventType, "fetch_completed"))
	return Result{Path: path, RemoteID: id, Download: &download}, nil
}

func (s *Stage) fromCache(id string, kind media.Kind, logger *slog.Logger) (Result, bool, error) {
	path, ok, err := s.cache.Lookup(id, kind)
	if err != nil {
		return Result{}, false, err
	}
	if ok {
		logger.Info("using cached download", logging.String("path", path), logging.String(logging.FieldEventType, "cache_hit"))
		return Result{Path: path, RemoteID: id, FromCache: true}, true, nil
	}
	if kind != media.KindAudio {
		return Result{}, false, nil
	}
	path, ok, err = s.cache.Lookup(id, media.KindVideo)
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{}, false, nil
	}
	logger.Info("using cached video as audio source",
		logging.String("path", path),
		logging.String(logging.FieldEventType, "cache_video_fallback"))
	return Result{Path: path, RemoteID: id, FromCache: true, Fallback: true}, true, nil
}
