package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/Diogo1457/happy-audio/internal/config"
)

func TestLoadDefaultConfigUsesHome(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Chdir(t.TempDir())

	cfg, path, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected no config file, got %q", path)
	}

	wantCache := filepath.Join(tempHome, ".cache", "happy-audio", "files")
	if cfg.Paths.CacheDir != wantCache {
		t.Fatalf("unexpected cache dir: got %q want %q", cfg.Paths.CacheDir, wantCache)
	}
	wantIndex := filepath.Join(tempHome, ".cache", "happy-audio", "config.json")
	if cfg.Paths.CacheIndex != wantIndex {
		t.Fatalf("unexpected cache index: got %q want %q", cfg.Paths.CacheIndex, wantIndex)
	}
	if cfg.Processing.Speed != 1.25 || cfg.Processing.PitchShift != 2.0 {
		t.Fatalf("unexpected processing defaults: %+v", cfg.Processing)
	}
	if !cfg.Processing.UseCache {
		t.Fatal("expected cache to be enabled by default")
	}
	if cfg.Tools.YTDLP != "yt-dlp" {
		t.Fatalf("unexpected yt-dlp binary: %q", cfg.Tools.YTDLP)
	}
}

func TestLoadHonoursXDGCacheHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if want := filepath.Join(xdg, "happy-audio", "files"); cfg.Paths.CacheDir != want {
		t.Fatalf("cache dir = %q, want %q", cfg.Paths.CacheDir, want)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("HAPPY_AUDIO_FFMPEG", "")

	type pathsSection struct {
		CacheDir   string `toml:"cache_dir"`
		CacheIndex string `toml:"cache_index"`
		OutputDir  string `toml:"output_dir"`
	}
	type processingSection struct {
		Speed      float64 `toml:"speed"`
		PitchShift float64 `toml:"pitch_shift"`
		UseCache   bool    `toml:"use_cache"`
	}
	type toolsSection struct {
		FFmpeg string `toml:"ffmpeg"`
	}
	type loggingSection struct {
		Format string `toml:"format"`
		Level  string `toml:"level"`
	}
	payload := struct {
		Paths      pathsSection      `toml:"paths"`
		Processing processingSection `toml:"processing"`
		Tools      toolsSection      `toml:"tools"`
		Logging    loggingSection    `toml:"logging"`
	}{
		Paths: pathsSection{
			CacheDir:   "~/media/cache",
			CacheIndex: "~/media/index.json",
			OutputDir:  "~/out",
		},
		Processing: processingSection{Speed: 1.5, PitchShift: -3, UseCache: false},
		Tools:      toolsSection{FFmpeg: " /opt/ffmpeg/bin/ffmpeg "},
		Logging:    loggingSection{Format: "JSON", Level: "Debug"},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.CacheDir != filepath.Join(tempHome, "media", "cache") {
		t.Fatalf("unexpected cache dir: %q", cfg.Paths.CacheDir)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "out") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Processing.Speed != 1.5 || cfg.Processing.PitchShift != -3 || cfg.Processing.UseCache {
		t.Fatalf("unexpected processing section: %+v", cfg.Processing)
	}
	if cfg.Tools.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected trimmed ffmpeg path, got %q", cfg.Tools.FFmpeg)
	}
	if cfg.Tools.FFprobe != "ffprobe" {
		t.Fatalf("expected default ffprobe, got %q", cfg.Tools.FFprobe)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[processing]\nsped = 2.0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestToolEnvironmentOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HAPPY_AUDIO_YTDLP", "/usr/local/bin/yt-dlp")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Tools.YTDLP != "/usr/local/bin/yt-dlp" {
		t.Fatalf("expected env override, got %q", cfg.Tools.YTDLP)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"zero speed", func(c *config.Config) { c.Processing.Speed = 0 }, "processing.speed"},
		{"negative speed", func(c *config.Config) { c.Processing.Speed = -1 }, "processing.speed"},
		{"pitch too high", func(c *config.Config) { c.Processing.PitchShift = 30 }, "processing.pitch_shift"},
		{"sample rate", func(c *config.Config) { c.Video.ExtractSampleRate = 100 }, "video.extract_sample_rate"},
		{"timeout", func(c *config.Config) { c.Download.TimeoutSeconds = -5 }, "download.timeout_seconds"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"cache dir", func(c *config.Config) { c.Paths.CacheDir = "" }, "paths.cache_dir"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Processing.Speed != 1.25 {
		t.Fatalf("unexpected sample speed: %v", cfg.Processing.Speed)
	}
}

func TestEnsureDirectoriesCreatesCacheLayout(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CacheDir = filepath.Join(base, "cache", "files")
	cfg.Paths.CacheIndex = filepath.Join(base, "state", "index.json")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.CacheDir, filepath.Dir(cfg.Paths.CacheIndex), cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist", dir)
		}
	}
}
