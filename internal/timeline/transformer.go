package timeline

import (
	"context"
	"fmt"

	"github.com/book-expert/logger"

	"github.com/book-expert/slideshow-service/internal/media/ffmpegcmd"
	"github.com/book-expert/slideshow-service/internal/mediautil"
)

const millisecondsPerSecond = 1000.0

// Transformer implements core.AudioTransformer on top of the ffmpeg command
// runner. Every output is normalized to a fixed mono sample rate so that
// later stages concatenate and mix without resampling surprises.
type Transformer struct {
	runner     *ffmpegcmd.Runner
	sampleRate int
	log        *logger.Logger
}

// NewTransformer creates a transformer that normalizes to the given sample rate.
func NewTransformer(runner *ffmpegcmd.Runner, sampleRate int, log *logger.Logger) *Transformer {
	return &Transformer{runner: runner, sampleRate: sampleRate, log: log}
}

// Retime changes tempo while preserving pitch. Speeds inside the identity
// window are a plain file copy; anything else runs an atempo chain whose
// stage factors all lie inside [0.5, 2.0].
func (t *Transformer) Retime(ctx context.Context, inputPath, outputPath string, speed float64) error {
	plan, err := RetimePlan(speed)
	if err != nil {
		return err
	}

	if len(plan) == 0 {
		copyErr := mediautil.CopyFile(inputPath, outputPath)
		if copyErr != nil {
			return fmt.Errorf("failed to copy audio for identity retime: %w", copyErr)
		}

		return nil
	}

	filters := make([]ffmpegcmd.Filter, 0, len(plan))
	for _, stage := range plan {
		filters = append(filters, ffmpegcmd.Filter{
			InputLabels:  nil,
			Name:         "atempo",
			Args:         fmt.Sprintf("%.6f", stage),
			OutputLabels: nil,
		})
	}

	command := ffmpegcmd.Command{
		Inputs:         []ffmpegcmd.Input{{Path: inputPath, Format: "", DurationSeconds: 0, UnsafePaths: false}},
		AudioFilters:   filters,
		VideoFilters:   nil,
		ComplexFilters: nil,
		Output:         t.monoOutput(outputPath),
	}

	runErr := t.runner.Run(ctx, command)
	if runErr != nil {
		return fmt.Errorf("retime to %vx failed: %w", speed, runErr)
	}

	return nil
}

// AddLeadIn prepends a synthetically generated silent segment of the given
// length, concatenated with the narration as a single stream.
func (t *Transformer) AddLeadIn(ctx context.Context, inputPath, outputPath string, leadInMS int) error {
	if leadInMS <= 0 {
		copyErr := mediautil.CopyFile(inputPath, outputPath)
		if copyErr != nil {
			return fmt.Errorf("failed to copy audio for zero lead-in: %w", copyErr)
		}

		return nil
	}

	silence := ffmpegcmd.Input{
		Path:            fmt.Sprintf("anullsrc=r=%d:cl=mono", t.sampleRate),
		Format:          "lavfi",
		DurationSeconds: float64(leadInMS) / millisecondsPerSecond,
		UnsafePaths:     false,
	}

	command := ffmpegcmd.Command{
		Inputs: []ffmpegcmd.Input{
			silence,
			{Path: inputPath, Format: "", DurationSeconds: 0, UnsafePaths: false},
		},
		AudioFilters: nil,
		VideoFilters: nil,
		ComplexFilters: []ffmpegcmd.Filter{
			{
				InputLabels:  []string{"0:a", "1:a"},
				Name:         "concat",
				Args:         "n=2:v=0:a=1",
				OutputLabels: []string{"aud"},
			},
		},
		Output: t.monoOutputMapped(outputPath, "[aud]", 0),
	}

	runErr := t.runner.Run(ctx, command)
	if runErr != nil {
		return fmt.Errorf("lead-in of %dms failed: %w", leadInMS, runErr)
	}

	return nil
}

// Mix attenuates the background by a linear multiplier and merges it with the
// narration using a dropout-tolerant merge. The output duration is forced to
// trimSeconds: a shorter background never truncates the mix and a longer one
// is cut.
func (t *Transformer) Mix(
	ctx context.Context,
	narrationPath, backgroundPath, outputPath string,
	musicVolume, trimSeconds float64,
) error {
	command := ffmpegcmd.Command{
		Inputs: []ffmpegcmd.Input{
			{Path: narrationPath, Format: "", DurationSeconds: 0, UnsafePaths: false},
			{Path: backgroundPath, Format: "", DurationSeconds: 0, UnsafePaths: false},
		},
		AudioFilters: nil,
		VideoFilters: nil,
		ComplexFilters: []ffmpegcmd.Filter{
			{
				InputLabels:  []string{"1:a"},
				Name:         "volume",
				Args:         fmt.Sprintf("%.3f", musicVolume),
				OutputLabels: []string{"bg"},
			},
			{
				InputLabels:  []string{"0:a", "bg"},
				Name:         "amix",
				Args:         "inputs=2:duration=first:dropout_transition=2",
				OutputLabels: []string{"mix"},
			},
		},
		Output: t.monoOutputMapped(outputPath, "[mix]", trimSeconds),
	}

	runErr := t.runner.Run(ctx, command)
	if runErr != nil {
		return fmt.Errorf("background mix failed: %w", runErr)
	}

	return nil
}

func (t *Transformer) monoOutput(path string) ffmpegcmd.Output {
	return t.monoOutputMapped(path, "", 0)
}

func (t *Transformer) monoOutputMapped(path, mapLabel string, trimSeconds float64) ffmpegcmd.Output {
	var maps []string
	if mapLabel != "" {
		maps = []string{mapLabel}
	}

	return ffmpegcmd.Output{
		Path:            path,
		MapLabels:       maps,
		AudioCodec:      "",
		VideoCodec:      "",
		PixelFormat:     "",
		SampleRate:      t.sampleRate,
		Channels:        1,
		FrameRate:       0,
		DurationSeconds: trimSeconds,
		ShortestStream:  false,
		FastStart:       false,
	}
}
