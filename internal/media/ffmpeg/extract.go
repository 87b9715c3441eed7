package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	transcoder "github.com/floostack/transcoder/ffmpeg"

	"github.com/Diogo1457/happy-audio/internal/services"
)

// ExtractAudio writes the soundtrack of videoPath to wavPath as 16-bit PCM at
// sampleRate, reporting progress while ffmpeg runs.
func (c *Client) ExtractAudio(ctx context.Context, videoPath, wavPath string, sampleRate int, progress services.ProgressFunc) error {
	if err := os.MkdirAll(filepath.Dir(wavPath), 0o755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	overwrite := true
	skipVideo := true
	codec := "pcm_s16le"
	format := "wav"
	opts := &transcoder.Options{
		SkipVideo:    &skipVideo,
		AudioCodec:   &codec,
		AudioRate:    &sampleRate,
		OutputFormat: &format,
		Overwrite:    &overwrite,
	}
	cfg := &transcoder.Config{
		ProgressEnabled: true,
		FfmpegBinPath:   c.ffmpeg,
		FfprobeBinPath:  c.ffprobe,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	instance := transcoder.New(cfg)
	updates, err := instance.
		Input(videoPath).
		Output(wavPath).
		WithContext(&runCtx).
		Start(opts)
	if err != nil {
		return fmt.Errorf("start extraction: %w", err)
	}
	cmd := instance.GetRunningCmdInstance()
	for update := range updates {
		progress.Emit(services.Progress{Stage: "Extracting audio", Percent: update.GetProgress()})
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// The update channel closes only after ffmpeg has been waited on.
	if err := exitError(cmd); err != nil {
		_ = os.Remove(wavPath)
		c.logger.Warn("soundtrack extraction failed",
			"input", videoPath,
			"error", err,
		)
		return err
	}
	info, err := os.Stat(wavPath)
	if err != nil {
		return fmt.Errorf("extraction produced no output: %w", err)
	}
	if info.Size() == 0 {
		return errors.New("extraction produced an empty file")
	}
	c.logger.Debug("extracted soundtrack", "path", wavPath, "sample_rate", sampleRate)
	return nil
}

// exitError reports a non-zero or unknown exit of a transcoder-run ffmpeg.
// The transcoder consumes stderr for progress, so the exit status is the cause.
func exitError(cmd *exec.Cmd) error {
	if cmd == nil || cmd.ProcessState == nil {
		return errors.New("ffmpeg exit status unavailable")
	}
	if !cmd.ProcessState.Success() {
		return fmt.Errorf("ffmpeg failed: %s", cmd.ProcessState)
	}
	return nil
}
