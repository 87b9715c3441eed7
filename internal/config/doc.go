// Package config loads, normalizes, and validates happy-audio configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// XDG_CACHE_HOME and HAPPY_AUDIO_FFMPEG. The Config type centralizes every knob
// the CLI and the pipelines need so downstream code receives sanitized paths,
// canonical log formats, and clear validation errors.
package config
