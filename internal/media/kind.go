package media

import (
	"fmt"
	"strings"
)

// Kind selects the cached container extension and which pipeline runs.
type Kind int

const (
	KindAudio Kind = iota
	KindVideo
)

// Ext returns the cache file extension for the kind, without a dot.
func (k Kind) Ext() string {
	if k == KindVideo {
		return "mp4"
	}
	return "mp3"
}

func (k Kind) String() string {
	if k == KindVideo {
		return "video"
	}
	return "audio"
}

// ParseKind accepts "audio"/"mp3" and "video"/"mp4" in any case.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "audio", "mp3":
		return KindAudio, nil
	case "video", "mp4":
		return KindVideo, nil
	default:
		return KindAudio, fmt.Errorf("unknown media kind %q", value)
	}
}

// MarshalText renders the kind for JSON and TOML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
