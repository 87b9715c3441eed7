// Package media holds the media kind shared by the cache, acquisition, and the
// pipelines, plus content sniffing for local inputs.
//
// Subpackages wrap the external media tools: ffprobe for inspection and ffmpeg
// for PCM decode/encode, audio-track extraction, and video export.
package media
