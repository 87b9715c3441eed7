package services

import (
	"errors"
	"fmt"
	"strings"
)

// Generic markers.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Input validation markers. These fire before any expensive work.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidRemoteURL   = errors.New("invalid remote url")
	ErrOutputPermission   = errors.New("output not writable")
	ErrFileType           = errors.New("unsupported file type")
	ErrInvalidVideoOutput = errors.New("invalid video output")
)

// Cache and acquisition markers.
var (
	ErrCacheFile        = errors.New("cache index error")
	ErrCacheFileRemoval = errors.New("cache file removal error")
	ErrFetchFailed      = errors.New("fetch failed")
)

// Audio pipeline markers, one per sub-stage.
var (
	ErrInvalidAudioInput = errors.New("invalid audio input")
	ErrAudioTimeStretch  = errors.New("audio time stretch error")
	ErrAudioPitchShift   = errors.New("audio pitch shift error")
	ErrAudioSave         = errors.New("audio save error")
)

// Video pipeline markers, one per sub-stage.
var (
	ErrInvalidVideoInput    = errors.New("invalid video input")
	ErrVideoAudioExtraction = errors.New("video audio extraction error")
	ErrVideoAudioProcessing = errors.New("video audio processing error")
	ErrVideoExport          = errors.New("video export error")
)

var kindNames = []struct {
	marker error
	name   string
}{
	{ErrInvalidRemoteURL, "InvalidRemoteURL"},
	{ErrInvalidInput, "InvalidInput"},
	{ErrOutputPermission, "OutputPermission"},
	{ErrFileType, "FileType"},
	{ErrInvalidVideoOutput, "InvalidVideoOutput"},
	{ErrCacheFileRemoval, "CacheFileRemoval"},
	{ErrCacheFile, "CacheFile"},
	{ErrFetchFailed, "FetchFailed"},
	// Outer video kinds come before the audio kinds they may wrap.
	{ErrInvalidVideoInput, "InvalidVideoInput"},
	{ErrVideoAudioExtraction, "VideoAudioExtraction"},
	{ErrVideoAudioProcessing, "VideoAudioProcessing"},
	{ErrVideoExport, "VideoExport"},
	{ErrInvalidAudioInput, "InvalidAudioInput"},
	{ErrAudioTimeStretch, "AudioTimeStretch"},
	{ErrAudioPitchShift, "AudioPitchShift"},
	{ErrAudioSave, "AudioSave"},
	{ErrValidation, "Validation"},
	{ErrConfiguration, "Configuration"},
	{ErrExternalTool, "ExternalTool"},
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf returns the short name of the outermost known marker in err, or
// "Unknown" when none matches. A nil error yields an empty string.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kindNames {
		if errors.Is(err, k.marker) {
			return k.name
		}
	}
	return "Unknown"
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
