package render

import (
	"context"
	"fmt"

	"github.com/book-expert/slideshow-service/internal/media/ffmpegcmd"
)

// FFmpegResizer implements core.FrameResizer with a scale+pad filter chain:
// the image is contained inside the canvas and the remainder is letterboxed
// or pillarboxed with the fill color.
type FFmpegResizer struct {
	runner    *ffmpegcmd.Runner
	fillColor string
}

// NewFFmpegResizer creates a resizer. An empty fillColor falls back to black.
func NewFFmpegResizer(runner *ffmpegcmd.Runner, fillColor string) *FFmpegResizer {
	if fillColor == "" {
		fillColor = "black"
	}

	return &FFmpegResizer{runner: runner, fillColor: fillColor}
}

// Resize renders sourcePath onto a width x height canvas at destPath.
func (r *FFmpegResizer) Resize(
	ctx context.Context,
	sourcePath, destPath string,
	width, height int,
) error {
	command := ffmpegcmd.Command{
		Inputs:       []ffmpegcmd.Input{{Path: sourcePath, Format: "", DurationSeconds: 0, UnsafePaths: false}},
		AudioFilters: nil,
		VideoFilters: []ffmpegcmd.Filter{
			{
				InputLabels:  nil,
				Name:         "scale",
				Args:         fmt.Sprintf("%d:%d:force_original_aspect_ratio=decrease", width, height),
				OutputLabels: nil,
			},
			{
				InputLabels:  nil,
				Name:         "pad",
				Args:         fmt.Sprintf("%d:%d:(ow-iw)/2:(oh-ih)/2:color=%s", width, height, r.fillColor),
				OutputLabels: nil,
			},
		},
		ComplexFilters: nil,
		Output: ffmpegcmd.Output{
			Path:            destPath,
			MapLabels:       nil,
			AudioCodec:      "",
			VideoCodec:      "",
			PixelFormat:     "",
			SampleRate:      0,
			Channels:        0,
			FrameRate:       0,
			DurationSeconds: 0,
			ShortestStream:  false,
			FastStart:       false,
		},
	}

	err := r.runner.Run(ctx, command)
	if err != nil {
		return fmt.Errorf("resize of '%s' failed: %w", sourcePath, err)
	}

	return nil
}
