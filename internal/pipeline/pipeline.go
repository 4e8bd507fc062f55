package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vblogger/vblogger/internal/compose"
	"github.com/vblogger/vblogger/internal/config"
	"github.com/vblogger/vblogger/internal/ffmpeg"
	"github.com/vblogger/vblogger/internal/media"
)

// Pipeline wires discovery, segmentation and composition together for one
// project configuration.
type Pipeline struct {
	logger zerolog.Logger
	cfg    *config.Config
	ffmpeg *ffmpeg.Executor
	walker *media.Walker
}

// New creates a pipeline. Both external tools are resolved here, so a
// missing ffmpeg or ffprobe fails before any file is touched.
func New(logger zerolog.Logger, cfg *config.Config) (*Pipeline, error) {
	exec, err := ffmpeg.New(logger, ffmpeg.Options{
		FFmpegPath:  cfg.FFmpeg.BinaryPath,
		FFprobePath: cfg.FFmpeg.ProbePath,
		Threads:     cfg.FFmpeg.Threads,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize ffmpeg: %w", err)
	}

	converter := media.NewConverter(logger, exec)
	walker := media.NewWalker(logger, converter, exec, media.WalkerOptions{
		BlurThreshold:     cfg.Curate.BlurThreshold,
		MinVideoDuration:  time.Duration(cfg.Curate.MinVideoDuration * float64(time.Second)),
		MinVideoDimension: cfg.Curate.MinVideoDimension,
		Concurrency:       cfg.Concurrency,
	})

	return &Pipeline{
		logger: logger.With().Str("component", "pipeline").Logger(),
		cfg:    cfg,
		ffmpeg: exec,
		walker: walker,
	}, nil
}

// Curate discovers the input folder, filters and orders its media, and
// groups the result into time-gap segments. An empty segment list is a
// valid outcome.
func (p *Pipeline) Curate(ctx context.Context) ([]media.Segment, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}

	items, err := p.walker.Discover(ctx, p.cfg.InputFolder)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}

	gap := time.Duration(p.cfg.Curate.GapThresholdSec * float64(time.Second))
	segments := media.Group(items, gap)

	p.logger.Info().
		Int("items", len(items)).
		Int("segments", len(segments)).
		Msg("curation complete")

	return segments, nil
}

// Build curates the input folder and composes the final video, returning
// the output path.
func (p *Pipeline) Build(ctx context.Context) (string, error) {
	segments, err := p.Curate(ctx)
	if err != nil {
		return "", err
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("no usable media found in %s", p.cfg.InputFolder)
	}

	composer := compose.New(p.logger, p.ffmpeg, p.cfg)
	out, err := composer.Build(ctx, segments)
	if err != nil {
		return "", fmt.Errorf("compose: %w", err)
	}

	return out, nil
}
