package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Diogo1457/happy-audio/internal/fileutil"
	"github.com/Diogo1457/happy-audio/internal/media"
	"github.com/Diogo1457/happy-audio/internal/services"
)

const (
	stageName    = "download"
	progressTag  = "happy-audio-progress"
	infoTag      = "happy-audio-info"
	filepathTag  = "happy-audio-file"
	defaultAudio = "192K"
)

// Download describes a completed fetch.
type Download struct {
	Path     string
	Title    string
	Uploader string
	Duration time.Duration
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) (stderr string, err error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithFFmpegLocation passes --ffmpeg-location so post-processing uses the same
// ffmpeg the pipelines use. Bare command names are left to PATH lookup.
func WithFFmpegLocation(path string) Option {
	return func(c *Client) {
		path = strings.TrimSpace(path)
		if strings.ContainsRune(path, filepath.Separator) {
			c.ffmpegLocation = path
		}
	}
}

// WithAudioQuality sets the mp3 extraction quality, e.g. "192K" or "0".
func WithAudioQuality(quality string) Option {
	return func(c *Client) {
		if q := strings.TrimSpace(quality); q != "" {
			c.audioQuality = q
		}
	}
}

// WithTimeout bounds each download. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary         string
	ffmpegLocation string
	audioQuality   string
	timeout        time.Duration
	exec           Executor
}

// New constructs a yt-dlp client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary:       binary,
		audioQuality: defaultAudio,
		exec:         commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Fetch downloads url into destDir as <id>.<ext> and returns its location.
// With overwrite set, an existing file at that path is replaced instead of reused.
func (c *Client) Fetch(ctx context.Context, url, destDir, id string, kind media.Kind, overwrite bool, progress services.ProgressFunc) (Download, error) {
	if strings.TrimSpace(destDir) == "" || strings.TrimSpace(id) == "" {
		return Download{}, services.Wrap(services.ErrFetchFailed, stageName, "fetch", "destination and id are required", nil)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return Download{}, services.Wrap(services.ErrFetchFailed, stageName, "fetch", "create destination", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var result Download
	progress.Stage("Downloading")
	stderr, err := c.exec.Run(ctx, c.binary, c.buildArgs(url, destDir, id, kind, overwrite), func(line string) {
		switch {
		case strings.HasPrefix(line, progressTag+" "):
			if update, ok := parseProgress(line); ok {
				progress.Emit(update)
			}
		case strings.HasPrefix(line, infoTag+" "):
			parseInfo(line, &result)
		case strings.HasPrefix(line, filepathTag+" "):
			result.Path = strings.TrimSpace(strings.TrimPrefix(line, filepathTag+" "))
		}
	})
	if err != nil {
		return Download{}, services.Wrap(services.ErrFetchFailed, stageName, "yt-dlp", classifyFailure(stderr), err)
	}

	if result.Path == "" {
		result.Path = filepath.Join(destDir, id+"."+kind.Ext())
	}
	if !fileutil.Exists(result.Path) {
		return Download{}, services.Wrap(services.ErrFetchFailed, stageName, "yt-dlp", "no output file at "+result.Path, nil)
	}
	progress.Emit(services.Progress{Stage: "Downloading", Percent: 100, Message: "Download complete"})
	return result, nil
}

func (c *Client) buildArgs(url, destDir, id string, kind media.Kind, overwrite bool) []string {
	args := []string{
		"--no-playlist",
		"--no-warnings",
		"--newline",
		"--progress",
		"--no-simulate",
		"--progress-template", "download:" + progressTag + " %(progress.downloaded_bytes)s %(progress.total_bytes)s %(progress.total_bytes_estimate)s",
		"--print", "before_dl:" + infoTag + " %(duration)s|%(uploader)s|%(title)s",
		"--print", "after_move:" + filepathTag + " %(filepath)s",
		"-o", filepath.Join(destDir, id+".%(ext)s"),
	}
	if overwrite {
		args = append(args, "--force-overwrites")
	}
	if c.ffmpegLocation != "" {
		args = append(args, "--ffmpeg-location", c.ffmpegLocation)
	}
	if kind == media.KindVideo {
		args = append(args, "-f", "bestvideo+bestaudio/best", "--merge-output-format", "mp4")
	} else {
		args = append(args, "-f", "bestaudio/best", "-x", "--audio-format", "mp3", "--audio-quality", c.audioQuality)
	}
	return append(args, "--", url)
}

func classifyFailure(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	switch {
	case strings.Contains(stderr, "Private video"), strings.Contains(stderr, "Video unavailable"):
		return "video unavailable"
	case strings.Contains(stderr, "HTTP Error 429"), strings.Contains(stderr, "rate-limit"):
		return "rate limited"
	case strings.Contains(stderr, "Sign in to confirm"):
		return "sign-in required"
	case stderr == "":
		return "download failed"
	}
	return fmt.Sprintf("download failed: %s", lastLine(stderr))
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
