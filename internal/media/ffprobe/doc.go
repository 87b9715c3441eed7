// Package ffprobe wraps ffprobe's JSON output for the audio and video pipelines.
//
// Inspect runs ffprobe against a file and returns a Result whose helpers answer
// the questions the pipelines ask: is there a video stream, what is the first
// audio stream's sample layout, how long is the clip, and at what frame rate
// should an export be written.
package ffprobe
