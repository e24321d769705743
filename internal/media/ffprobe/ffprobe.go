// Package ffprobe reads the authoritative metadata of media artifacts. Every
// downstream timing decision uses the duration reported here, never a value
// carried over from an earlier stage.
package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/book-expert/slideshow-service/internal/core"
)

// ErrEmptyPath indicates that no artifact path was supplied.
var ErrEmptyPath = errors.New("probe path cannot be empty")

type probeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

// Prober implements core.MediaProber by executing the ffprobe binary.
type Prober struct {
	binary string
}

// New creates a prober. An empty binary falls back to "ffprobe" on PATH.
func New(binary string) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}

	return &Prober{binary: binary}
}

// Inspect executes ffprobe against the artifact and decodes its JSON report.
func (p *Prober) Inspect(ctx context.Context, path string) (core.MediaInfo, error) {
	if strings.TrimSpace(path) == "" {
		return core.MediaInfo{}, ErrEmptyPath
	}

	// #nosec G204 -- the binary comes from configuration, the path from the workspace
	cmd := exec.CommandContext(
		ctx, p.binary,
		"-v", "error", "-hide_banner",
		"-show_format", "-show_streams",
		"-of", "json",
		"--", path,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return core.MediaInfo{}, fmt.Errorf(
			"ffprobe inspect failed: %w - output: %s",
			err, strings.TrimSpace(string(output)),
		)
	}

	var result probeResult

	err = json.Unmarshal(output, &result)
	if err != nil {
		return core.MediaInfo{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	return decodeInfo(result), nil
}

func decodeInfo(result probeResult) core.MediaInfo {
	info := core.MediaInfo{
		DurationSeconds: parseFloat(result.Format.Duration),
		SampleRate:      0,
		Channels:        0,
		Width:           0,
		Height:          0,
	}

	for _, stream := range result.Streams {
		switch strings.ToLower(stream.CodecType) {
		case "audio":
			if info.SampleRate == 0 {
				info.SampleRate = int(parseFloat(stream.SampleRate))
				info.Channels = stream.Channels
			}
		case "video":
			if info.Width == 0 {
				info.Width = stream.Width
				info.Height = stream.Height
			}
		}
	}

	return info
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}

	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}

	return parsed
}
