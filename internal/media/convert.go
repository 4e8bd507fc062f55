package media

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vblogger/vblogger/pkg/util"
)

// imageConverter is the slice of the ffmpeg layer the converter needs.
type imageConverter interface {
	ConvertImage(ctx context.Context, input, output string) error
}

// Converter produces decodable JPEG siblings for legacy image containers.
// Converted files are left beside the source as a cache, so repeated runs
// skip the transcode entirely. The sibling carries a photo extension, so a
// later scan of the folder discovers it as an item of its own.
type Converter struct {
	logger zerolog.Logger
	ffmpeg imageConverter
}

// NewConverter creates a converter backed by the given transcoder.
func NewConverter(logger zerolog.Logger, conv imageConverter) *Converter {
	return &Converter{
		logger: logger.With().Str("component", "converter").Logger(),
		ffmpeg: conv,
	}
}

// EnsureDecodable returns a path the standard image codecs can read. For
// anything but HEIC/HEIF the input comes back untouched. Conversion failure
// degrades to the original path; downstream decoding then fails soft on
// its own terms.
func (c *Converter) EnsureDecodable(ctx context.Context, path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if !legacyExts[ext] {
		return path
	}

	target := strings.TrimSuffix(path, filepath.Ext(path)) + ".jpg"
	if util.FileExists(target) {
		c.logger.Debug().Str("path", target).Msg("converted sibling exists")
		return target
	}

	// Concurrent attempts on the same file may race past the existence
	// check; ffmpeg overwrites the target, which is harmless here.
	if err := c.ffmpeg.ConvertImage(ctx, path, target); err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("conversion failed, using original")
		return path
	}

	c.logger.Debug().Str("path", target).Msg("converted legacy image")
	return target
}
