package ffmpeg

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/Diogo1457/happy-audio/internal/audio"
	"github.com/Diogo1457/happy-audio/internal/logging"
	"github.com/Diogo1457/happy-audio/internal/media/ffprobe"
	"github.com/Diogo1457/happy-audio/internal/video"
)

var commandContext = exec.CommandContext

const (
	defaultVideoCodec = "libx264"
	defaultAudioCodec = "aac"
)

// Option configures the client.
type Option func(*Client)

// WithCodecs overrides the export video and audio codecs. WebM outputs always
// use VP9 and Opus.
func WithCodecs(videoCodec, audioCodec string) Option {
	return func(c *Client) {
		if v := strings.TrimSpace(videoCodec); v != "" {
			c.videoCodec = v
		}
		if a := strings.TrimSpace(audioCodec); a != "" {
			c.audioCodec = a
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "ffmpeg")
	}
}

// Client wraps the ffmpeg and ffprobe CLIs.
type Client struct {
	ffmpeg     string
	ffprobe    string
	videoCodec string
	audioCodec string
	logger     *slog.Logger
}

// New constructs a client. Empty binary names fall back to PATH lookup of
// ffmpeg and ffprobe.
func New(ffmpegBinary, ffprobeBinary string, opts ...Option) *Client {
	c := &Client{
		ffmpeg:     orDefault(ffmpegBinary, "ffmpeg"),
		ffprobe:    orDefault(ffprobeBinary, "ffprobe"),
		videoCodec: defaultVideoCodec,
		audioCodec: defaultAudioCodec,
		logger:     logging.NewComponentLogger(nil, "ffmpeg"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Probe inspects path with ffprobe.
func (c *Client) Probe(ctx context.Context, path string) (ffprobe.Result, error) {
	return ffprobe.Inspect(ctx, c.ffprobe, path)
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// stderrTail keeps the last few lines of ffmpeg's stderr for error messages.
func stderrTail(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "; ")
}

var (
	_ audio.Codec      = (*Client)(nil)
	_ video.Transcoder = (*Client)(nil)
)
