package ffmpeg

import (
	"context"
	"fmt"
	"os"
)

// ConvertImage transcodes a still image into the format implied by the
// output extension. Used to turn HEIC/HEIF files into plain JPEG.
func (e *Executor) ConvertImage(ctx context.Context, input, output string) error {
	if input == "" || output == "" {
		return fmt.Errorf("input and output paths are required")
	}

	e.logger.Debug().
		Str("input", input).
		Str("output", output).
		Msg("converting image")

	args := []string{
		"-i", input,
		"-frames:v", "1",
		"-update", "1",
		output,
	}

	runOpts := RunOptions{
		Args: args,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("image conversion")
		},
	}

	if err := e.Run(ctx, runOpts); err != nil {
		return fmt.Errorf("image conversion failed: %w", err)
	}

	// ffmpeg can exit zero without producing output on some broken inputs
	if _, err := os.Stat(output); err != nil {
		return fmt.Errorf("conversion produced no output: %w", err)
	}

	return nil
}
