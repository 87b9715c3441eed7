package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateDownload(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.CacheDir == "" {
		return errors.New("paths.cache_dir must be set")
	}
	if c.Paths.CacheIndex == "" {
		return errors.New("paths.cache_index must be set")
	}
	if c.Paths.CacheIndex == c.Paths.CacheDir {
		return errors.New("paths.cache_index must be a file path distinct from paths.cache_dir")
	}
	return nil
}

func (c *Config) validateProcessing() error {
	if math.IsNaN(c.Processing.Speed) || math.IsInf(c.Processing.Speed, 0) || c.Processing.Speed <= 0 {
		return errors.New("processing.speed must be a positive number")
	}
	if math.IsNaN(c.Processing.PitchShift) || math.Abs(c.Processing.PitchShift) > maxPitchShift {
		return fmt.Errorf("processing.pitch_shift must be between -%g and %g semitones", maxPitchShift, maxPitchShift)
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.ExtractSampleRate < 8000 || c.Video.ExtractSampleRate > 192000 {
		return errors.New("video.extract_sample_rate must be between 8000 and 192000")
	}
	return nil
}

func (c *Config) validateDownload() error {
	if c.Download.TimeoutSeconds < 0 {
		return errors.New("download.timeout_seconds must be zero (no timeout) or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
