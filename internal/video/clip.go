package video

import (
	"path/filepath"
	"strings"
)

// Clip is the export plan for one video: the source picture re-timed by
// Speed, paired with the soundtrack at AudioPath.
type Clip struct {
	Source    string
	Speed     float64
	FrameRate string
	Duration  float64
	AudioPath string
}

// WithSpeed returns a copy of c re-timed by speed. Nothing is rendered until
// the clip is exported.
func (c Clip) WithSpeed(speed float64) Clip {
	c.Speed = speed
	return c
}

// WithAudio returns a copy of c that uses path as its soundtrack.
func (c Clip) WithAudio(path string) Clip {
	c.AudioPath = path
	return c
}

// OutputDuration is the expected length in seconds after re-timing.
func (c Clip) OutputDuration() float64 {
	if c.Speed <= 0 {
		return c.Duration
	}
	return c.Duration / c.Speed
}

var outputExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".avi":  {},
	".mov":  {},
	".webm": {},
}

// SupportedOutput reports whether path has an accepted container extension.
func SupportedOutput(path string) bool {
	_, ok := outputExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
