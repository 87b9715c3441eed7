// Package identity turns a remote video URL into the canonical identifier used
// as the download cache key.
package identity

import (
	"regexp"
	"strings"

	"github.com/Diogo1457/happy-audio/internal/services"
)

var (
	urlPattern = regexp.MustCompile(`^(https?://)?(www\.|m\.)?(youtube\.com/(watch\?v=|shorts/)|youtu\.be/)[0-9A-Za-z_-]{11}([?&].*)?$`)
	idPattern  = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})(?:[?&]|$)`)
)

// Validate reports whether url has the accepted remote video URL shape.
func Validate(url string) bool {
	return urlPattern.MatchString(strings.TrimSpace(url))
}

// ExtractID returns the 11-character identifier that follows "v=" or a path
// separator. The same URL always yields the same identifier.
func ExtractID(url string) (string, error) {
	match := idPattern.FindStringSubmatch(strings.TrimSpace(url))
	if len(match) < 2 {
		return "", services.Wrap(services.ErrInvalidRemoteURL, "identity", "extract id", "no video identifier in "+quote(url), nil)
	}
	return match[1], nil
}

// Resolve validates url and extracts its identifier in one step.
func Resolve(url string) (string, error) {
	if !Validate(url) {
		return "", services.Wrap(services.ErrInvalidRemoteURL, "identity", "validate", "unsupported url "+quote(url), nil)
	}
	return ExtractID(url)
}

func quote(value string) string {
	return `"` + strings.TrimSpace(value) + `"`
}
