package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVideo()
	c.normalizeDownload()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	root := defaultCacheRoot()
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = filepath.Join(root, defaultCacheFilesDir)
	}
	if strings.TrimSpace(c.Paths.CacheIndex) == "" {
		c.Paths.CacheIndex = filepath.Join(root, defaultCacheIndexName)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}

	var err error
	if c.Paths.CacheDir, err = expandPath(strings.TrimSpace(c.Paths.CacheDir)); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.CacheIndex, err = expandPath(strings.TrimSpace(c.Paths.CacheIndex)); err != nil {
		return fmt.Errorf("paths.cache_index: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.TempDir, err = expandPath(strings.TrimSpace(c.Paths.TempDir)); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVideo() {
	c.Video.VideoCodec = strings.TrimSpace(c.Video.VideoCodec)
	if c.Video.VideoCodec == "" {
		c.Video.VideoCodec = defaultVideoCodec
	}
	c.Video.AudioCodec = strings.TrimSpace(c.Video.AudioCodec)
	if c.Video.AudioCodec == "" {
		c.Video.AudioCodec = defaultAudioCodec
	}
	if c.Video.ExtractSampleRate == 0 {
		c.Video.ExtractSampleRate = defaultExtractSampleRate
	}
}

func (c *Config) normalizeDownload() {
	c.Download.AudioQuality = strings.TrimSpace(c.Download.AudioQuality)
	if c.Download.AudioQuality == "" {
		c.Download.AudioQuality = defaultAudioQuality
	}
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = toolWithEnv(c.Tools.FFmpeg, "HAPPY_AUDIO_FFMPEG", defaultFFmpegBinary)
	c.Tools.FFprobe = toolWithEnv(c.Tools.FFprobe, "HAPPY_AUDIO_FFPROBE", defaultFFprobeBinary)
	c.Tools.YTDLP = toolWithEnv(c.Tools.YTDLP, "HAPPY_AUDIO_YTDLP", defaultYTDLPBinary)
}

// toolWithEnv prefers the environment override, then the configured value,
// then the fallback binary name.
func toolWithEnv(value, envKey, fallback string) string {
	if env, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(env) != "" {
		return strings.TrimSpace(env)
	}
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
