package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/vblogger/vblogger/internal/config"
	"github.com/vblogger/vblogger/internal/ffmpeg"
	"github.com/vblogger/vblogger/internal/media"
	"github.com/vblogger/vblogger/pkg/util"
)

const (
	audioRate   = 48000
	silenceSpec = "anullsrc=channel_layout=stereo:sample_rate=48000"
)

// Composer renders curated segments into the final video blog: a title
// cover, one normalized chunk per item with a filename-derived caption, a
// back cover, and an optional looped music bed.
type Composer struct {
	logger zerolog.Logger
	ffmpeg *ffmpeg.Executor
	cfg    *config.Config
}

// New creates a composer.
func New(logger zerolog.Logger, exec *ffmpeg.Executor, cfg *config.Config) *Composer {
	return &Composer{
		logger: logger.With().Str("component", "composer").Logger(),
		ffmpeg: exec,
		cfg:    cfg,
	}
}

// Build renders every item to an intermediate chunk, concatenates the
// chunks, and mixes in background music when configured. It returns the
// final output path.
func (c *Composer) Build(ctx context.Context, segments []media.Segment) (string, error) {
	total := 0
	for _, seg := range segments {
		total += len(seg)
	}
	if total == 0 {
		return "", fmt.Errorf("nothing to compose")
	}

	c.logger.Info().
		Int("segments", len(segments)).
		Int("items", total).
		Str("output", c.cfg.OutputFile).
		Msg("starting composition")

	workDir, err := os.MkdirTemp("", "vblogger-render-")
	if err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	var chunks []string

	cover := filepath.Join(workDir, "cover.mp4")
	if err := c.renderCover(ctx, c.cfg.Title, c.cfg.Subtitle, cover); err != nil {
		return "", fmt.Errorf("render cover: %w", err)
	}
	chunks = append(chunks, cover)

	n := 0
	for _, seg := range segments {
		for _, item := range seg {
			out := filepath.Join(workDir, fmt.Sprintf("chunk_%04d.mp4", n))
			n++

			switch item.Kind {
			case media.KindPhoto:
				err = c.renderPhoto(ctx, item, out)
			case media.KindVideo:
				err = c.renderVideo(ctx, item, out)
			}
			if err != nil {
				return "", fmt.Errorf("render %s: %w", item.SourcePath, err)
			}
			chunks = append(chunks, out)
		}
	}

	backCover := filepath.Join(workDir, "back_cover.mp4")
	if err := c.renderCover(ctx, "Welcome back!", "See you soon", backCover); err != nil {
		return "", fmt.Errorf("render back cover: %w", err)
	}
	chunks = append(chunks, backCover)

	if err := util.EnsureDir(filepath.Dir(c.cfg.OutputFile)); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	merged := c.cfg.OutputFile
	if c.cfg.MusicFile != "" {
		merged = filepath.Join(workDir, "merged.mp4")
	}

	concatOpts := ffmpeg.ConcatOptions{
		Inputs: chunks,
		Output: merged,
		ProgressFunc: func(p *ffmpeg.Progress) {
			c.logger.Debug().Int("frame", p.Frame).Str("time", p.Time).Msg("concat progress")
		},
	}
	if err := c.ffmpeg.Concat(ctx, concatOpts); err != nil {
		return "", fmt.Errorf("concat: %w", err)
	}

	if c.cfg.MusicFile != "" {
		if err := c.addMusic(ctx, merged, c.cfg.MusicFile, c.cfg.OutputFile); err != nil {
			return "", fmt.Errorf("music bed: %w", err)
		}
	}

	c.logger.Info().Str("output", c.cfg.OutputFile).Msg("composition complete")
	return c.cfg.OutputFile, nil
}

// chunkFilter builds the normalization chain every chunk goes through:
// fit inside the target frame, pad to it, square pixels, constant frame
// rate, encoder-friendly pixel format, then the caption.
func (c *Composer) chunkFilter(caption string) string {
	r := c.cfg.Render
	return ffmpeg.NewFilterBuilder().
		ScaleFit(r.Width, r.Height).
		Pad(r.Width, r.Height).
		SetSAR().
		FPS(r.FPS).
		Format("yuv420p").
		DrawText(caption, r.FontFile, 40).
		Build()
}

func (c *Composer) encodeArgs() []string {
	r := c.cfg.Render

	preset := r.Preset
	if preset == "" {
		preset = ffmpeg.DefaultPreset
	}
	crf := r.CRF
	if crf == 0 {
		crf = ffmpeg.DefaultCRF
	}

	return []string{
		"-c:v", ffmpeg.DefaultVideoCodec,
		"-preset", preset,
		"-crf", fmt.Sprintf("%d", crf),
		"-c:a", ffmpeg.DefaultAudioCodec,
		"-ar", fmt.Sprintf("%d", audioRate),
	}
}

// renderPhoto renders a still image as a fixed-duration chunk with a
// silent audio track, so every chunk concatenates uniformly.
func (c *Composer) renderPhoto(ctx context.Context, item *media.Item, out string) error {
	dur := util.FormatSeconds(time.Duration(c.cfg.Render.PhotoDuration * float64(time.Second)))

	args := []string{
		"-loop", "1", "-t", dur, "-i", item.ProcessingPath,
		"-f", "lavfi", "-t", dur, "-i", silenceSpec,
		"-vf", c.chunkFilter(SubtitleFromFilename(item.SourcePath)),
		"-map", "0:v:0", "-map", "1:a:0",
	}
	args = append(args, c.encodeArgs()...)
	args = append(args, "-shortest", out)

	return c.ffmpeg.Run(ctx, ffmpeg.RunOptions{
		Args: args,
		LogHandler: func(line string) {
			c.logger.Debug().Str("ffmpeg", line).Msg("photo chunk")
		},
	})
}

// renderVideo re-encodes a video into the target frame. Sources without an
// audio stream get silence synthesized so the concat stays well-formed.
func (c *Composer) renderVideo(ctx context.Context, item *media.Item, out string) error {
	probe, err := c.ffmpeg.ProbeVideo(ctx, item.SourcePath)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}

	args := []string{"-i", item.SourcePath}
	audioMap := "0:a:0"
	if !probe.HasAudio {
		args = append(args, "-f", "lavfi", "-t", util.FormatSeconds(item.Duration), "-i", silenceSpec)
		audioMap = "1:a:0"
	}

	args = append(args,
		"-vf", c.chunkFilter(SubtitleFromFilename(item.SourcePath)),
		"-map", "0:v:0", "-map", audioMap,
	)
	args = append(args, c.encodeArgs()...)
	args = append(args, "-shortest", out)

	return c.ffmpeg.Run(ctx, ffmpeg.RunOptions{
		Args: args,
		LogHandler: func(line string) {
			c.logger.Debug().Str("ffmpeg", line).Msg("video chunk")
		},
	})
}

// renderCover builds a title card from a solid color source.
func (c *Composer) renderCover(ctx context.Context, title, subtitle, out string) error {
	r := c.cfg.Render
	dur := util.FormatSeconds(time.Duration(r.CoverDuration * float64(time.Second)))

	src := fmt.Sprintf("color=c=%s:s=%dx%d:r=%d", r.CoverColor, r.Width, r.Height, int(r.FPS))

	fb := ffmpeg.NewFilterBuilder().
		DrawTextAt(title, r.FontFile, 96, "(h-text_h)/2-80", false).
		DrawTextAt(subtitle, r.FontFile, 52, "(h-text_h)/2+40", false).
		Format("yuv420p")

	args := []string{
		"-f", "lavfi", "-t", dur, "-i", src,
		"-f", "lavfi", "-t", dur, "-i", silenceSpec,
		"-vf", fb.Build(),
		"-map", "0:v:0", "-map", "1:a:0",
	}
	args = append(args, c.encodeArgs()...)
	args = append(args, "-shortest", out)

	return c.ffmpeg.Run(ctx, ffmpeg.RunOptions{
		Args: args,
		LogHandler: func(line string) {
			c.logger.Debug().Str("ffmpeg", line).Msg("cover chunk")
		},
	})
}

// addMusic loops the music file under the merged video at the configured
// volume, copying the video stream untouched.
func (c *Composer) addMusic(ctx context.Context, video, music, out string) error {
	filter := fmt.Sprintf(
		"[1:a]volume=%.2f[bed];[0:a][bed]amix=inputs=2:duration=first:dropout_transition=2[aout]",
		c.cfg.Render.MusicVolume,
	)

	args := []string{
		"-i", video,
		"-stream_loop", "-1", "-i", music,
		"-filter_complex", filter,
		"-map", "0:v:0", "-map", "[aout]",
		"-c:v", "copy",
		"-c:a", ffmpeg.DefaultAudioCodec,
		"-shortest",
		"-movflags", "+faststart",
		out,
	}

	return c.ffmpeg.Run(ctx, ffmpeg.RunOptions{
		Args: args,
		LogHandler: func(line string) {
			c.logger.Debug().Str("ffmpeg", line).Msg("music mix")
		},
	})
}
