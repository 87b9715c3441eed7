package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Diogo1457/happy-audio/internal/fileutil"
	"github.com/Diogo1457/happy-audio/internal/services"
	"github.com/Diogo1457/happy-audio/internal/video"
)

const exportStage = "Exporting video"

// Export renders clip to outputPath: the picture re-timed by the clip's speed
// and the clip's soundtrack in place of the original audio. The file is
// written to a hidden sibling first and renamed into place on success.
func (c *Client) Export(ctx context.Context, clip video.Clip, outputPath string, progress services.ProgressFunc) error {
	if clip.Speed <= 0 {
		return fmt.Errorf("invalid speed %v", clip.Speed)
	}
	if strings.TrimSpace(clip.AudioPath) == "" {
		return errors.New("clip has no soundtrack")
	}
	tmp := tempSibling(outputPath)
	args := c.exportArgs(clip, tmp)

	var stderr bytes.Buffer
	cmd := commandContext(ctx, c.ffmpeg, args...) //nolint:gosec
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	total := clip.OutputDuration()
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if pct, ok := parseOutTime(scanner.Text(), total); ok {
			progress.Emit(services.Progress{Stage: exportStage, Percent: pct})
		}
	}
	if err := cmd.Wait(); err != nil {
		_ = fileutil.RemoveIfExists(tmp)
		return fmt.Errorf("ffmpeg export: %w: %s", err, stderrTail(stderr.String()))
	}
	if err := os.Rename(tmp, outputPath); err != nil {
		_ = fileutil.RemoveIfExists(tmp)
		return fmt.Errorf("finalize output: %w", err)
	}
	c.logger.Debug("exported video", "path", outputPath, "speed", clip.Speed)
	return nil
}

func (c *Client) exportArgs(clip video.Clip, target string) []string {
	videoCodec, audioCodec := c.videoCodec, c.audioCodec
	if strings.EqualFold(filepath.Ext(target), ".webm") {
		videoCodec, audioCodec = "libvpx-vp9", "libopus"
	}
	args := []string{
		"-y", "-nostdin", "-v", "error",
		"-i", clip.Source,
		"-i", clip.AudioPath,
		"-filter_complex", "[0:v]setpts=PTS/" + formatFloat(clip.Speed) + "[v]",
		"-map", "[v]",
		"-map", "1:a:0",
		"-c:v", videoCodec,
		"-c:a", audioCodec,
	}
	if fps := strings.TrimSpace(clip.FrameRate); fps != "" && fps != "0/0" {
		args = append(args, "-r", fps)
	}
	return append(args, "-shortest", "-progress", "pipe:1", "-nostats", target)
}

// tempSibling keeps the extension so ffmpeg can infer the muxer.
func tempSibling(path string) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, "."+stem+"."+uuid.NewString()[:8]+ext)
}

// parseOutTime reads an out_time_us line from ffmpeg's -progress output.
func parseOutTime(line string, total float64) (float64, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok || (key != "out_time_us" && key != "out_time_ms") || total <= 0 {
		return 0, false
	}
	us, err := strconv.ParseInt(value, 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	pct := float64(us) / 1e6 / total * 100
	if pct > 100 {
		pct = 100
	}
	return pct, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
