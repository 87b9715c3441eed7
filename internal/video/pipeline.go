package video

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Diogo1457/happy-audio/internal/fileutil"
	"github.com/Diogo1457/happy-audio/internal/logging"
	"github.com/Diogo1457/happy-audio/internal/media/ffprobe"
	"github.com/Diogo1457/happy-audio/internal/services"
)

const stageName = "video"

// DefaultSampleRate is the rate the soundtrack is extracted at.
const DefaultSampleRate = 44100

// Progress stages reported by the pipeline.
const (
	StepExtract = "Extracting audio"
	StepExport  = "Exporting video"
)

// Transcoder provides the container-level operations.
type Transcoder interface {
	Probe(ctx context.Context, path string) (ffprobe.Result, error)
	ExtractAudio(ctx context.Context, videoPath, wavPath string, sampleRate int, progress services.ProgressFunc) error
	Export(ctx context.Context, clip Clip, outputPath string, progress services.ProgressFunc) error
}

// AudioProcessor transforms one audio file; audio.Pipeline satisfies it.
type AudioProcessor interface {
	Process(ctx context.Context, input, output string, speed, semitones float64, progress services.ProgressFunc) (string, error)
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithTempDir places intermediate WAV files in dir instead of the system temp.
func WithTempDir(dir string) Option {
	return func(p *Pipeline) {
		if dir != "" {
			p.tempDir = dir
		}
	}
}

// WithSampleRate overrides the extraction sample rate.
func WithSampleRate(rate int) Option {
	return func(p *Pipeline) {
		if rate > 0 {
			p.sampleRate = rate
		}
	}
}

// Pipeline orchestrates one video transformation.
type Pipeline struct {
	transcoder Transcoder
	audio      AudioProcessor
	logger     *slog.Logger
	tempDir    string
	sampleRate int
}

// NewPipeline constructs a video pipeline.
func NewPipeline(transcoder Transcoder, audio AudioProcessor, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		transcoder: transcoder,
		audio:      audio,
		logger:     logging.NewComponentLogger(logger, "video"),
		tempDir:    os.TempDir(),
		sampleRate: DefaultSampleRate,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process writes input, sped up by speed with its soundtrack pitch-shifted by
// semitones, to output and returns output.
func (p *Pipeline) Process(ctx context.Context, input, output string, speed, semitones float64, progress services.ProgressFunc) (string, error) {
	logger := logging.WithContext(ctx, p.logger)

	if !SupportedOutput(output) {
		return "", services.Wrap(services.ErrInvalidVideoOutput, stageName, "validate output",
			fmt.Sprintf("unsupported extension %q (want mp4, mkv, avi, mov, or webm)", filepath.Ext(output)), nil)
	}
	if !fileutil.Exists(input) {
		return "", services.Wrap(services.ErrInvalidVideoInput, stageName, "load", "input not found: "+input, nil)
	}
	probe, err := p.transcoder.Probe(ctx, input)
	if err != nil {
		return "", services.Wrap(services.ErrInvalidVideoInput, stageName, "load", filepath.Base(input), err)
	}
	stream, ok := probe.FirstVideoStream()
	if !ok {
		return "", services.Wrap(services.ErrInvalidVideoInput, stageName, "load", "no video stream in "+filepath.Base(input), nil)
	}

	clip := Clip{
		Source:    input,
		FrameRate: stream.AvgFrameRate,
		Duration:  probe.DurationSeconds(),
	}.WithSpeed(speed)

	scope := uuid.NewString()
	extracted := filepath.Join(p.tempDir, "happy-audio-"+scope+"-extracted.wav")
	processed := filepath.Join(p.tempDir, "happy-audio-"+scope+"-processed.wav")
	defer p.cleanup(logger, extracted, processed)

	started := time.Now()
	progress.Stage(StepExtract)
	if err := p.transcoder.ExtractAudio(ctx, input, extracted, p.sampleRate, progress); err != nil {
		return "", services.Wrap(services.ErrVideoAudioExtraction, stageName, "extract audio", filepath.Base(input), err)
	}

	if _, err := p.audio.Process(ctx, extracted, processed, speed, semitones, progress); err != nil {
		return "", services.Wrap(services.ErrVideoAudioProcessing, stageName, "process audio", "", err)
	}
	clip = clip.WithAudio(processed)

	progress.Stage(StepExport)
	if err := p.transcoder.Export(ctx, clip, output, progress); err != nil {
		return "", services.Wrap(services.ErrVideoExport, stageName, "export", filepath.Base(output), err)
	}
	progress.Emit(services.Progress{Stage: StepExport, Percent: 100, Message: "Done"})

	logger.Info("video processed",
		logging.String("output", output),
		logging.Float64("speed", speed),
		logging.Float64("pitch_shift", semitones),
		logging.Duration("elapsed", time.Since(started)),
		logging.String(logging.FieldEventType, "video_processed"))
	return output, nil
}

func (p *Pipeline) cleanup(logger *slog.Logger, paths ...string) {
	for _, path := range paths {
		if err := fileutil.RemoveIfExists(path); err != nil {
			logging.WarnWithContext(logger, "failed to remove temp file", "temp_cleanup_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "delete the file manually"),
				logging.String(logging.FieldImpact, "temp space is not reclaimed"))
		}
	}
}
