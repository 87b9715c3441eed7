package accelerate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/Diogo1457/happy-audio/internal/acquire"
	"github.com/Diogo1457/happy-audio/internal/identity"
	"github.com/Diogo1457/happy-audio/internal/logging"
	"github.com/Diogo1457/happy-audio/internal/media"
	"github.com/Diogo1457/happy-audio/internal/services"
)

const (
	stageName    = "accelerate"
	outputSuffix = "_happy"
)

// Acquirer resolves a request source to a local file.
type Acquirer interface {
	Acquire(ctx context.Context, src acquire.Source, kind media.Kind, useCache bool, progress services.ProgressFunc) (acquire.Result, error)
}

// Pipeline transforms a local file into output.
type Pipeline interface {
	Process(ctx context.Context, input, output string, speed, semitones float64, progress services.ProgressFunc) (string, error)
}

// Service runs requests end to end.
type Service struct {
	acquirer  Acquirer
	audio     Pipeline
	video     Pipeline
	outputDir string
	logger    *slog.Logger
}

// New constructs a Service. Derived outputs land in outputDir.
func New(acquirer Acquirer, audio, video Pipeline, outputDir string, logger *slog.Logger) *Service {
	if strings.TrimSpace(outputDir) == "" {
		outputDir = "."
	}
	return &Service{
		acquirer:  acquirer,
		audio:     audio,
		video:     video,
		outputDir: outputDir,
		logger:    logging.NewComponentLogger(logger, "accelerate"),
	}
}

// Run validates req, acquires its source, and runs the pipeline for its kind.
// Every check that does not need the source's content happens before any
// download or decode.
func (s *Service) Run(ctx context.Context, req Request, progress services.ProgressFunc) (Result, error) {
	runID := services.NewRunID()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithStage(ctx, stageName)
	logger := logging.WithContext(ctx, s.logger)

	if err := validateRequest(req); err != nil {
		return Result{}, services.Wrap(services.ErrValidation, stageName, "validate request", "", err)
	}
	src := req.Source()

	stem, err := s.checkSource(src, req.Kind)
	if err != nil {
		return Result{}, err
	}
	output, err := s.resolveOutput(req.Output, stem, req.Kind)
	if err != nil {
		return Result{}, err
	}

	started := time.Now()
	logger.Info("run started",
		logging.String(logging.FieldKind, req.Kind.String()),
		logging.String("output", output),
		logging.Float64("speed", req.Speed),
		logging.Float64("pitch_shift", req.PitchShift),
		logging.Bool("use_cache", req.UseCache),
		logging.String(logging.FieldEventType, "run_started"))

	acquired, err := s.acquirer.Acquire(ctx, src, req.Kind, req.UseCache, progress)
	if err != nil {
		return Result{}, err
	}

	pipeline := s.audio
	if req.Kind == media.KindVideo {
		pipeline = s.video
	}
	written, err := pipeline.Process(ctx, acquired.Path, output, req.Speed, req.PitchShift, progress)
	if err != nil {
		logging.ErrorWithContext(logger, "run failed", "run_failed",
			logging.String("error_kind", services.KindOf(err)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the input media and the ffmpeg installation"))
		return Result{}, err
	}

	logger.Info("run completed",
		logging.String("output", written),
		logging.Bool("from_cache", acquired.FromCache),
		logging.Duration("elapsed", time.Since(started)),
		logging.String(logging.FieldEventType, "run_completed"))
	return Result{OutputPath: written, Kind: req.Kind, RunID: runID, Acquired: acquired}, nil
}

// checkSource returns the stem used for derived output names.
func (s *Service) checkSource(src acquire.Source, kind media.Kind) (string, error) {
	if src.IsRemote() {
		id, err := identity.Resolve(src.URL)
		if err != nil {
			return "", err
		}
		return id, nil
	}

	info, err := os.Stat(src.Path)
	if err != nil || info.IsDir() {
		return "", services.Wrap(services.ErrInvalidInput, stageName, "check input", "file not found: "+src.Path, err)
	}
	if _, err := kind.CheckFile(src.Path); err != nil {
		return "", services.Wrap(services.ErrFileType, stageName, "check input", filepath.Base(src.Path), err)
	}
	base := filepath.Base(src.Path)
	return strings.TrimSuffix(base, filepath.Ext(base)), nil
}

// resolveOutput derives <outputDir>/<stem>_happy.<ext> when output is empty
// and verifies that the destination directory accepts writes.
func (s *Service) resolveOutput(output, stem string, kind media.Kind) (string, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		output = filepath.Join(s.outputDir, stem+outputSuffix+"."+kind.Ext())
	}
	if err := checkWritableDir(filepath.Dir(output)); err != nil {
		return "", services.Wrap(services.ErrOutputPermission, stageName, "check output", output, err)
	}
	return output, nil
}

func checkWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("directory %s does not exist", dir)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("directory %s is not writable: %w", dir, err)
	}
	return nil
}
