package media

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectType returns the sniffed MIME type of the file at path.
func DetectType(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect file type: %w", err)
	}
	return mtype.String(), nil
}

// Accepts reports whether a sniffed MIME type can feed a pipeline of the given
// kind. Audio accepts any audio or video container since the first audio
// stream is decoded; video requires a video container.
func (k Kind) Accepts(mimeType string) bool {
	base, _, _ := strings.Cut(strings.ToLower(mimeType), ";")
	base = strings.TrimSpace(base)
	switch k {
	case KindVideo:
		return strings.HasPrefix(base, "video/") || base == "application/vnd.rn-realmedia"
	default:
		return strings.HasPrefix(base, "audio/") || strings.HasPrefix(base, "video/") || base == "application/ogg"
	}
}

// CheckFile sniffs path and returns its MIME type, or an error when the
// content cannot feed a pipeline of kind k.
func (k Kind) CheckFile(path string) (string, error) {
	mimeType, err := DetectType(path)
	if err != nil {
		return "", err
	}
	if !k.Accepts(mimeType) {
		return mimeType, fmt.Errorf("%s input has unsupported content type %s", k, mimeType)
	}
	return mimeType, nil
}
