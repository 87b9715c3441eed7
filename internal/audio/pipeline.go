package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Diogo1457/happy-audio/internal/dsp"
	"github.com/Diogo1457/happy-audio/internal/fileutil"
	"github.com/Diogo1457/happy-audio/internal/logging"
	"github.com/Diogo1457/happy-audio/internal/services"
)

const stageName = "audio"

// Progress checkpoints, in order.
const (
	StepLoad    = "Loading audio"
	StepStretch = "Applying time stretch"
	StepShift   = "Applying pitch shift"
	StepSave    = "Saving output"
	StepDone    = "Done"
)

// Pipeline runs load, stretch, shift, and save over one file.
type Pipeline struct {
	proc   Processor
	logger *slog.Logger
}

// NewPipeline constructs a pipeline around proc.
func NewPipeline(proc Processor, logger *slog.Logger) *Pipeline {
	return &Pipeline{proc: proc, logger: logging.NewComponentLogger(logger, "audio")}
}

// Process transforms input into output and returns output. speed > 1 shortens
// the audio; semitones > 0 raises the pitch.
func (p *Pipeline) Process(ctx context.Context, input, output string, speed, semitones float64, progress services.ProgressFunc) (string, error) {
	logger := logging.WithContext(ctx, p.logger)

	progress.Emit(services.Progress{Stage: StepLoad, Percent: 0})
	if !fileutil.Exists(input) {
		return "", services.Wrap(services.ErrInvalidAudioInput, stageName, "load", "input not found: "+input, nil)
	}
	started := time.Now()
	buf, err := p.proc.Load(ctx, input)
	if err != nil {
		return "", services.Wrap(services.ErrInvalidAudioInput, stageName, "load", filepath.Base(input), err)
	}
	logger.Debug("audio loaded",
		logging.Int("sample_rate", buf.SampleRate),
		logging.Int("channels", buf.NumChannels()),
		logging.Duration("duration", buf.Duration()))

	progress.Emit(services.Progress{Stage: StepStretch, Percent: 25})
	stretched, err := p.proc.TimeStretch(ctx, buf, speed)
	if err != nil {
		return "", services.Wrap(services.ErrAudioTimeStretch, stageName, "time stretch", fmt.Sprintf("rate %g", speed), err)
	}

	progress.Emit(services.Progress{Stage: StepShift, Percent: 50})
	shifted, err := p.proc.PitchShift(ctx, stretched, semitones)
	if err != nil {
		return "", services.Wrap(services.ErrAudioPitchShift, stageName, "pitch shift", fmt.Sprintf("%g semitones", semitones), err)
	}
	shifted.SampleRate = buf.SampleRate

	progress.Emit(services.Progress{Stage: StepSave, Percent: 75})
	if err := p.save(ctx, output, shifted); err != nil {
		return "", services.Wrap(services.ErrAudioSave, stageName, "save", filepath.Base(output), err)
	}

	progress.Emit(services.Progress{Stage: StepDone, Percent: 100})
	logger.Info("audio processed",
		logging.String("output", output),
		logging.Float64("speed", speed),
		logging.Float64("pitch_shift", semitones),
		logging.Duration("elapsed", time.Since(started)),
		logging.String(logging.FieldEventType, "audio_processed"))
	return output, nil
}

// save encodes into a hidden sibling of output and renames it into place.
// The temp name keeps the extension so the encoder picks the same format.
func (p *Pipeline) save(ctx context.Context, output string, buf dsp.Buffer) error {
	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := tempSibling(output)
	if err := p.proc.Save(ctx, tmp, buf); err != nil {
		_ = fileutil.RemoveIfExists(tmp)
		return err
	}
	if err := os.Rename(tmp, output); err != nil {
		_ = fileutil.RemoveIfExists(tmp)
		return err
	}
	return nil
}

func tempSibling(output string) string {
	dir, base := filepath.Split(output)
	ext := filepath.Ext(base)
	return filepath.Join(dir, "."+strings.TrimSuffix(base, ext)+"."+uuid.NewString()[:8]+ext)
}
