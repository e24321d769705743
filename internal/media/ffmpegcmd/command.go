// Package ffmpegcmd models ffmpeg invocations as typed descriptors. The
// pipeline composes inputs, filters, and output options as values; the
// descriptor is translated to the engine's argument syntax only at the
// boundary, in Args. This keeps the core logic free of engine-specific string
// building and independently testable.
package ffmpegcmd

import (
	"fmt"
	"strconv"
	"strings"
)

// Input is one ffmpeg input stream.
type Input struct {
	// Path is the input location, or a lavfi graph description when Format
	// is "lavfi".
	Path string
	// Format forces the demuxer (-f), e.g. "lavfi" or "concat".
	Format string
	// DurationSeconds limits how long the input is read (-t before -i).
	DurationSeconds float64
	// UnsafePaths disables the concat demuxer path whitelist (-safe 0).
	UnsafePaths bool
}

// Filter is a single filter graph node, e.g. {Name: "atempo", Args: "2.0"}.
// Labeled filters form a -filter_complex graph; unlabeled ones are chained in
// order into a -filter:a chain.
type Filter struct {
	// InputLabels are the stream labels consumed, e.g. "0:a", "bg".
	InputLabels []string
	Name        string
	Args        string
	// OutputLabels are the labels produced, e.g. "mix".
	OutputLabels []string
}

// Output describes the single output artifact of the invocation.
type Output struct {
	Path string
	// MapLabels selects the streams written to the output, e.g. "0:v", "[mix]".
	MapLabels []string
	// AudioCodec, VideoCodec, PixelFormat select the encoders ("" omits).
	AudioCodec  string
	VideoCodec  string
	PixelFormat string
	// SampleRate and Channels normalize the audio stream (0 omits).
	SampleRate int
	Channels   int
	// FrameRate fixes the video frame rate (0 omits).
	FrameRate int
	// DurationSeconds forces the output duration (-t, 0 omits).
	DurationSeconds float64
	// ShortestStream truncates the output to the shorter input stream.
	ShortestStream bool
	// FastStart relocates the container index for progressive playback.
	FastStart bool
}

// Command is a complete, typed ffmpeg invocation descriptor.
type Command struct {
	Inputs []Input
	// AudioFilters form a plain -filter:a chain; mutually exclusive with
	// ComplexFilters.
	AudioFilters []Filter
	// VideoFilters form a plain -filter:v chain.
	VideoFilters []Filter
	// ComplexFilters form a labeled -filter_complex graph.
	ComplexFilters []Filter
	Output         Output
}

// Args translates the descriptor to the ffmpeg argument list. Global options
// keep the engine quiet and overwrite-friendly; everything else follows the
// descriptor verbatim.
func (c Command) Args() []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y"}

	for _, input := range c.Inputs {
		args = append(args, input.args()...)
	}

	if len(c.AudioFilters) > 0 {
		args = append(args, "-filter:a", renderChain(c.AudioFilters, ","))
	}

	if len(c.VideoFilters) > 0 {
		args = append(args, "-filter:v", renderChain(c.VideoFilters, ","))
	}

	if len(c.ComplexFilters) > 0 {
		args = append(args, "-filter_complex", renderChain(c.ComplexFilters, ";"))
	}

	args = append(args, c.Output.args()...)

	return args
}

func (i Input) args() []string {
	var args []string

	if i.Format != "" {
		args = append(args, "-f", i.Format)
	}

	if i.UnsafePaths {
		args = append(args, "-safe", "0")
	}

	if i.DurationSeconds > 0 {
		args = append(args, "-t", formatSeconds(i.DurationSeconds))
	}

	return append(args, "-i", i.Path)
}

func (o Output) args() []string {
	var args []string

	for _, label := range o.MapLabels {
		args = append(args, "-map", label)
	}

	if o.VideoCodec != "" {
		args = append(args, "-c:v", o.VideoCodec)
	}

	if o.PixelFormat != "" {
		args = append(args, "-pix_fmt", o.PixelFormat)
	}

	if o.FrameRate > 0 {
		args = append(args, "-r", strconv.Itoa(o.FrameRate))
	}

	if o.AudioCodec != "" {
		args = append(args, "-c:a", o.AudioCodec)
	}

	if o.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(o.SampleRate))
	}

	if o.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(o.Channels))
	}

	if o.DurationSeconds > 0 {
		args = append(args, "-t", formatSeconds(o.DurationSeconds))
	}

	if o.ShortestStream {
		args = append(args, "-shortest")
	}

	if o.FastStart {
		args = append(args, "-movflags", "+faststart")
	}

	return append(args, o.Path)
}

func renderChain(filters []Filter, separator string) string {
	rendered := make([]string, 0, len(filters))
	for _, filter := range filters {
		rendered = append(rendered, filter.render())
	}

	return strings.Join(rendered, separator)
}

func (f Filter) render() string {
	var builder strings.Builder

	for _, label := range f.InputLabels {
		builder.WriteString("[" + label + "]")
	}

	builder.WriteString(f.Name)

	if f.Args != "" {
		builder.WriteString("=" + f.Args)
	}

	for _, label := range f.OutputLabels {
		builder.WriteString("[" + label + "]")
	}

	return builder.String()
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.3f", seconds)
}
