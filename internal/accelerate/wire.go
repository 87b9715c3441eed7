package accelerate

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Diogo1457/happy-audio/internal/acquire"
	"github.com/Diogo1457/happy-audio/internal/audio"
	"github.com/Diogo1457/happy-audio/internal/config"
	"github.com/Diogo1457/happy-audio/internal/downloadcache"
	"github.com/Diogo1457/happy-audio/internal/media/ffmpeg"
	"github.com/Diogo1457/happy-audio/internal/services/ytdlp"
	"github.com/Diogo1457/happy-audio/internal/video"
)

// NewFromConfig wires the production collaborators described by cfg.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("accelerate: config is required")
	}
	store, err := downloadcache.Open(cfg.Paths.CacheDir, cfg.Paths.CacheIndex, logger)
	if err != nil {
		return nil, err
	}
	fetcher, err := ytdlp.New(cfg.Tools.YTDLP,
		ytdlp.WithFFmpegLocation(cfg.Tools.FFmpeg),
		ytdlp.WithAudioQuality(cfg.Download.AudioQuality),
		ytdlp.WithTimeout(time.Duration(cfg.Download.TimeoutSeconds)*time.Second),
	)
	if err != nil {
		return nil, err
	}
	transcoder := ffmpeg.New(cfg.Tools.FFmpeg, cfg.Tools.FFprobe,
		ffmpeg.WithCodecs(cfg.Video.VideoCodec, cfg.Video.AudioCodec),
		ffmpeg.WithLogger(logger),
	)

	audioPipeline := audio.NewPipeline(audio.NewEngine(transcoder), logger)
	videoPipeline := video.NewPipeline(transcoder, audioPipeline, logger,
		video.WithTempDir(cfg.TempDir()),
		video.WithSampleRate(cfg.Video.ExtractSampleRate),
	)
	stage := acquire.New(store, fetcher, logger)
	return New(stage, audioPipeline, videoPipeline, cfg.Paths.OutputDir, logger), nil
}
