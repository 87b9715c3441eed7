// Package ffmpeg drives the ffmpeg and ffprobe binaries for the pipelines.
//
// Client implements audio.Codec (raw float PCM over pipes) and
// video.Transcoder (probe, soundtrack extraction, and the final export that
// re-times the picture and muxes in the processed soundtrack).
package ffmpeg
