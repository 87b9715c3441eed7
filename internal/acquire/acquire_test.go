package acquire_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Diogo1457/happy-audio/internal/acquire"
	"github.com/Diogo1457/happy-audio/internal/downloadcache"
	"github.com/Diogo1457/happy-audio/internal/media"
	"github.com/Diogo1457/happy-audio/internal/services"
	"github.com/Diogo1457/happy-audio/internal/services/ytdlp"
	"github.com/Diogo1457/happy-audio/internal/testsupport"
)

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=5"

type fakeFetcher struct {
	calls      atomic.Int32
	overwrites atomic.Int32
	delay      time.Duration
	err        error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string, destDir, id string, kind media.Kind, overwrite bool, _ services.ProgressFunc) (ytdlp.Download, error) {
	f.calls.Add(1)
	if overwrite {
		f.overwrites.Add(1)
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return ytdlp.Download{}, f.err
	}
	path := filepath.Join(destDir, id+"."+kind.Ext())
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		return ytdlp.Download{}, err
	}
	return ytdlp.Download{Path: path, Title: "title"}, nil
}

func newStage(t *testing.T, fetcher *fakeFetcher) (*acquire.Stage, *downloadcache.Store) {
	t.Helper()
	base := t.TempDir()
	store, err := downloadcache.Open(filepath.Join(base, "files"), filepath.Join(base, "config.json"), nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return acquire.New(store, fetcher, nil), store
}

func TestLocalPathBypassesCache(t *testing.T) {
	fetcher := &fakeFetcher{}
	stage, store := newStage(t, fetcher)

	res, err := stage.Acquire(context.Background(), acquire.Source{Path: "/music/song.mp3"}, media.KindAudio, true, nil)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if res.Path != "/music/song.mp3" || res.FromCache {
		t.Fatalf("unexpected result %+v", res)
	}
	if fetcher.calls.Load() != 0 {
		t.Fatal("local source must not fetch")
	}
	if entries, _ := store.Entries(); len(entries) != 0 {
		t.Fatalf("local source must not touch the cache, got %v", entries)
	}
}

func TestInvalidURL(t *testing.T) {
	fetcher := &fakeFetcher{}
	stage, _ := newStage(t, fetcher)
	_, err := stage.Acquire(context.Background(), acquire.Source{URL: "not a url"}, media.KindAudio, true, nil)
	if !errors.Is(err, services.ErrInvalidRemoteURL) {
		t.Fatalf("expected ErrInvalidRemoteURL, got %v", err)
	}
	if fetcher.calls.Load() != 0 {
		t.Fatal("invalid url must not reach the fetcher")
	}
}

func TestMissFetchesAndCaches(t *testing.T) {
	fetcher := &fakeFetcher{}
	stage, store := newStage(t, fetcher)

	res, err := stage.Acquire(context.Background(), acquire.Source{URL: testURL}, media.KindAudio, true, nil)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if res.FromCache || res.RemoteID != "dQw4w9WgXcQ" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Path != store.FilePath("dQw4w9WgXcQ", media.KindAudio) {
		t.Fatalf("unexpected path %q", res.Path)
	}

	res, err = stage.Acquire(context.Background(), acquire.Source{URL: testURL}, media.KindAudio, true, nil)
	if err != nil {
		t.Fatalf("second Acquire returned error: %v", err)
	}
	if !res.FromCache {
		t.Fatal("expected second acquisition to hit the cache")
	}
	if fetcher.calls.Load() != 1 {
		t.Fatalf("expected one fetch, got %d", fetcher.calls.Load())
	}
	if fetcher.overwrites.Load() != 0 {
		t.Fatal("a cached acquisition must not force an overwrite")
	}
}

func TestNoCacheAlwaysFetches(t *testing.T) {
	fetcher := &fakeFetcher{}
	stage, store := newStage(t, fetcher)
	testsupport.WriteFile(t, store.FilePath("dQw4w9WgXcQ", media.KindAudio), 8)
	if err := store.Insert("dQw4w9WgXcQ", media.KindAudio, ""); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	res, err := stage.Acquire(context.Background(), acquire.Source{URL: testURL}, media.KindAudio, false, nil)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if res.FromCache {
		t.Fatal("useCache=false must not report a cache hit")
	}
	if fetcher.calls.Load() != 1 {
		t.Fatalf("expected fetch despite cache hit, got %d calls", fetcher.calls.Load())
	}
	if fetcher.overwrites.Load() != 1 {
		t.Fatal("bypassing the cache must ask the fetcher to overwrite")
	}
}

func TestAudioFallsBackToCachedVideo(t *testing.T) {
	fetcher := &fakeFetcher{}
	stage, store := newStage(t, fetcher)
	videoPath := store.FilePath("dQw4w9WgXcQ", media.KindVideo)
	testsupport.WriteFile(t, videoPath, 8)
	if err := store.Insert("dQw4w9WgXcQ", media.KindVideo, videoPath); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	res, err := stage.Acquire(context.Background(), acquire.Source{URL: testURL}, media.KindAudio, true, nil)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if !res.Fallback || !res.FromCache || res.Path != videoPath {
		t.Fatalf("expected video fallback, got %+v", res)
	}
	if fetcher.calls.Load() != 0 {
		t.Fatal("fallback must not fetch")
	}
}

func TestVideoDoesNotFallBackToAudio(t *testing.T) {
	fetcher := &fakeFetcher{}
	stage, store := newStage(t, fetcher)
	audioPath := store.FilePath("dQw4w9WgXcQ", media.KindAudio)
	testsupport.WriteFile(t, audioPath, 8)
	if err := store.Insert("dQw4w9WgXcQ", media.KindAudio, audioPath); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	if _, err := stage.Acquire(context.Background(), acquire.Source{URL: testURL}, media.KindVideo, true, nil); err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if fetcher.calls.Load() != 1 {
		t.Fatal("video request must fetch when only audio is cached")
	}
}

func TestFetchFailurePropagates(t *testing.T) {
	fetcher := &fakeFetcher{err: services.Wrap(services.ErrFetchFailed, "download", "yt-dlp", "boom", nil)}
	stage, store := newStage(t, fetcher)
	_, err := stage.Acquire(context.Background(), acquire.Source{URL: testURL}, media.KindAudio, true, nil)
	if !errors.Is(err, services.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if entries, _ := store.Entries(); len(entries) != 0 {
		t.Fatalf("failed fetch must not be cached, got %v", entries)
	}
}

// Concurrent misses on the same identity are not coalesced: both callers
// download. The cache index stays well formed.
func TestConcurrentMissesBothFetch(t *testing.T) {
	fetcher := &fakeFetcher{delay: 50 * time.Millisecond}
	stage, store := newStage(t, fetcher)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := stage.Acquire(context.Background(), acquire.Source{URL: testURL}, media.KindAudio, true, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Acquire returned error: %v", err)
		}
	}
	if fetcher.calls.Load() != 2 {
		t.Fatalf("expected both callers to fetch, got %d", fetcher.calls.Load())
	}
	entries, err := store.Entries()
	if err != nil {
		t.Fatalf("index unreadable after race: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single entry, got %v", entries)
	}
}
