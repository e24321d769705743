// Package assemble issues the final encode pass: the concat frame sequence is
// read as a video stream at a fixed frame rate, the narration track is read
// alongside, both are encoded with broadly compatible codecs, and the output
// is truncated to the shorter of the two streams.
package assemble

import (
	"context"
	"fmt"

	"github.com/book-expert/logger"

	"github.com/book-expert/slideshow-service/internal/core"
	"github.com/book-expert/slideshow-service/internal/media/ffmpegcmd"
)

// Broadly compatible output encoding.
const (
	videoCodec  = "libx264"
	audioCodec  = "aac"
	pixelFormat = "yuv420p"
)

const defaultFrameRate = 30

// Invoker implements core.Assembler on top of the ffmpeg command runner.
type Invoker struct {
	runner    *ffmpegcmd.Runner
	frameRate int
	log       *logger.Logger
}

// NewInvoker creates an invoker encoding at the given frame rate.
func NewInvoker(runner *ffmpegcmd.Runner, frameRate int, log *logger.Logger) *Invoker {
	if frameRate <= 0 {
		frameRate = defaultFrameRate
	}

	return &Invoker{runner: runner, frameRate: frameRate, log: log}
}

// Assemble encodes the descriptor's frame sequence and the audio artifact
// into outputPath. A nonzero engine exit is fatal and never retried.
func (i *Invoker) Assemble(ctx context.Context, descriptorPath, audioPath, outputPath string) error {
	command := ffmpegcmd.Command{
		Inputs: []ffmpegcmd.Input{
			{Path: descriptorPath, Format: "concat", DurationSeconds: 0, UnsafePaths: true},
			{Path: audioPath, Format: "", DurationSeconds: 0, UnsafePaths: false},
		},
		AudioFilters:   nil,
		VideoFilters:   nil,
		ComplexFilters: nil,
		Output: ffmpegcmd.Output{
			Path:            outputPath,
			MapLabels:       []string{"0:v", "1:a"},
			AudioCodec:      audioCodec,
			VideoCodec:      videoCodec,
			PixelFormat:     pixelFormat,
			SampleRate:      0,
			Channels:        0,
			FrameRate:       i.frameRate,
			DurationSeconds: 0,
			// The output stops at the shorter stream, so a frame
			// sequence whose nominal display time exceeds the audio
			// is truncated to the audio duration.
			ShortestStream: true,
			// Container index up front for progressive playback.
			FastStart: true,
		},
	}

	err := i.runner.Run(ctx, command)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrEncode, err)
	}

	if i.log != nil {
		i.log.Info("Assembled video: %s", outputPath)
	}

	return nil
}
