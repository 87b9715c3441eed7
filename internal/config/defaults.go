package config

import "path/filepath"

const (
	defaultConfigPath        = "~/.config/happy-audio/config.toml"
	projectConfigName        = "happy-audio.toml"
	defaultCacheFilesDir     = "files"
	defaultCacheIndexName    = "config.json"
	defaultOutputDir         = "."
	defaultSpeed             = 1.25
	defaultPitchShift        = 2.0
	defaultUseCache          = true
	defaultExtractSampleRate = 44100
	defaultVideoCodec        = "libx264"
	defaultAudioCodec        = "aac"
	defaultAudioQuality      = "192K"
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultYTDLPBinary       = "yt-dlp"
	defaultLogFormat         = "console"
	defaultLogLevel          = "warn"

	// maxPitchShift bounds pitch_shift to two octaves either way.
	maxPitchShift = 24.0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	root := defaultCacheRoot()
	return Config{
		Paths: Paths{
			CacheDir:   filepath.Join(root, defaultCacheFilesDir),
			CacheIndex: filepath.Join(root, defaultCacheIndexName),
			OutputDir:  defaultOutputDir,
		},
		Processing: Processing{
			Speed:      defaultSpeed,
			PitchShift: defaultPitchShift,
			UseCache:   defaultUseCache,
		},
		Video: Video{
			ExtractSampleRate: defaultExtractSampleRate,
			VideoCodec:        defaultVideoCodec,
			AudioCodec:        defaultAudioCodec,
		},
		Download: Download{
			AudioQuality: defaultAudioQuality,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
			YTDLP:   defaultYTDLPBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
