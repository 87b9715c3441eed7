package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Diogo1457/happy-audio/internal/accelerate"
	"github.com/Diogo1457/happy-audio/internal/config"
	"github.com/Diogo1457/happy-audio/internal/deps"
	"github.com/Diogo1457/happy-audio/internal/logging"
	"github.com/Diogo1457/happy-audio/internal/media"
	"github.com/Diogo1457/happy-audio/internal/preflight"
	"github.com/Diogo1457/happy-audio/internal/services"
)

type processOptions struct {
	file    string
	url     string
	output  string
	speed   float64
	pitch   float64
	video   bool
	noCache bool
	json    bool
	quiet   bool
}

type processResult struct {
	Output     string  `json:"output"`
	Kind       string  `json:"kind"`
	Speed      float64 `json:"speed"`
	PitchShift float64 `json:"pitch_shift"`
	FromCache  bool    `json:"from_cache"`
	Fallback   bool    `json:"video_fallback,omitempty"`
	RemoteID   string  `json:"remote_id,omitempty"`
	Title      string  `json:"title,omitempty"`
	RunID      string  `json:"run_id"`
}

func runProcess(cmd *cobra.Command, ctx *commandContext, opts processOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	req := buildRequest(cmd, cfg, opts)
	if err := checkReadiness(cmd, cfg, req); err != nil {
		return err
	}

	svc, err := accelerate.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	showProgress := !opts.json && !opts.quiet
	if showProgress {
		printSettings(out, req)
	}

	var sink services.ProgressFunc
	var bar *progressRenderer
	if showProgress {
		bar = newProgressRenderer(cmd.ErrOrStderr())
		sink = bar.Update
	} else {
		sink = logProgress(logger)
	}

	res, err := svc.Run(cmd.Context(), req, sink)
	if bar != nil {
		bar.Close()
	}
	if err != nil {
		return err
	}

	result := processResult{
		Output:     res.OutputPath,
		Kind:       res.Kind.String(),
		Speed:      req.Speed,
		PitchShift: req.PitchShift,
		FromCache:  res.Acquired.FromCache,
		Fallback:   res.Acquired.Fallback,
		RemoteID:   res.Acquired.RemoteID,
		RunID:      res.RunID,
	}
	if res.Acquired.Download != nil {
		result.Title = res.Acquired.Download.Title
	}
	if opts.json {
		return writeJSON(cmd, result)
	}
	printSuccess(out, "Done: "+result.Output)
	return nil
}

// buildRequest fills speed and pitch from config unless the flags were set.
func buildRequest(cmd *cobra.Command, cfg *config.Config, opts processOptions) accelerate.Request {
	req := accelerate.Request{
		Path:       strings.TrimSpace(opts.file),
		URL:        strings.TrimSpace(opts.url),
		Kind:       media.KindAudio,
		Speed:      cfg.Processing.Speed,
		PitchShift: cfg.Processing.PitchShift,
		Output:     strings.TrimSpace(opts.output),
		UseCache:   cfg.Processing.UseCache && !opts.noCache,
	}
	if opts.video {
		req.Kind = media.KindVideo
	}
	if cmd.Flags().Changed("speed") {
		req.Speed = opts.speed
	}
	if cmd.Flags().Changed("pitch") {
		req.PitchShift = opts.pitch
	}
	if req.Path != "" {
		if expanded, err := config.ExpandPath(req.Path); err == nil {
			req.Path = expanded
		}
	}
	if req.Output != "" {
		if expanded, err := config.ExpandPath(req.Output); err == nil {
			req.Output = expanded
		}
	}
	return req
}

// checkReadiness fails fast on missing tools or unusable directories.
func checkReadiness(cmd *cobra.Command, cfg *config.Config, req accelerate.Request) error {
	statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
	missing := deps.Missing(statuses)
	if req.URL != "" {
		for _, s := range statuses {
			if s.Name == "yt-dlp" && !s.Available {
				missing = append(missing, s)
			}
		}
	}
	if len(missing) > 0 {
		parts := make([]string, 0, len(missing))
		for _, s := range missing {
			parts = append(parts, fmt.Sprintf("%s: %s", s.Name, s.Detail))
		}
		return services.Wrap(services.ErrExternalTool, "cli", "check dependencies", strings.Join(parts, "; "), nil)
	}

	checks := []preflight.Result{preflight.CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir)}
	if failed := preflight.Failed(checks); len(failed) > 0 {
		return services.Wrap(services.ErrConfiguration, "cli", "check directories", failed[0].Name+": "+failed[0].Detail, nil)
	}
	return nil
}

func printSettings(out io.Writer, req accelerate.Request) {
	source := req.Path
	if req.URL != "" {
		source = req.URL
	}
	fmt.Fprintln(out, "Settings:")
	fmt.Fprintf(out, "  Source:      %s\n", source)
	fmt.Fprintf(out, "  Speed:       %gx\n", req.Speed)
	fmt.Fprintf(out, "  Pitch shift: %+g semitones\n", req.PitchShift)
	fmt.Fprintf(out, "  Video mode:  %s\n", yesNo(req.Kind == media.KindVideo))
	if req.URL != "" {
		fmt.Fprintf(out, "  Use cache:   %s\n", yesNo(req.UseCache))
	}
}

// logProgress records sampled progress when the bar is hidden.
func logProgress(logger *slog.Logger) services.ProgressFunc {
	sampler := logging.NewProgressSampler(25)
	return func(p services.Progress) {
		if !sampler.ShouldLog(p.Percent, p.Stage) {
			return
		}
		logger.Info("progress",
			logging.String("step", p.Stage),
			logging.Float64("percent", p.Percent),
			logging.String(logging.FieldEventType, "progress"))
	}
}
