package core

import (
	"fmt"
	"math"
)

// Canvas and pipeline bounds.
const (
	MinCanvasDimension = 16
	MaxCanvasDimension = 7680
	MaxMusicVolume     = 1.0
)

// SpeechRequest carries one synthesis call to the speech service.
type SpeechRequest struct {
	Text   string
	Voice  string
	Locale string
}

// ImageReference is one input image as supplied by the caller. Position is the
// original input position and never changes; it is the ordering tiebreak of
// last resort.
type ImageReference struct {
	Path     string
	Position int
}

// Basename returns the final path element of the reference.
func (r ImageReference) Basename() string {
	for i := len(r.Path) - 1; i >= 0; i-- {
		if r.Path[i] == '/' {
			return r.Path[i+1:]
		}
	}

	return r.Path
}

// MediaInfo is the authoritative metadata of a probed artifact.
type MediaInfo struct {
	DurationSeconds float64
	SampleRate      int
	Channels        int
	Width           int
	Height          int
}

// AudioSegment describes one audio artifact in the timeline. A new segment is
// produced at each stage; earlier segments stay on disk until workspace
// teardown and are never mutated.
type AudioSegment struct {
	Path            string
	SampleRate      int
	Channels        int
	DurationSeconds float64
}

// RenderedFrame is one canvas-fitted image. DisplayDuration is zero until the
// timing allocator runs.
type RenderedFrame struct {
	Path            string
	Width           int
	Height          int
	DisplayDuration float64
}

// PipelineRequest is the validated, immutable description of one assembly job.
type PipelineRequest struct {
	NarrationText       string
	Voice               string
	Locale              string
	CanvasWidth         int
	CanvasHeight        int
	Images              []ImageReference
	BackgroundMusicPath string
	MusicVolume         float64
	SpeechRate          float64
	LeadInMS            int
	OutputPath          string
}

// Validate rejects malformed requests before any external call is made.
func (r *PipelineRequest) Validate() error {
	if r.NarrationText == "" {
		return fmt.Errorf("%w: narration text is empty", ErrInvalidInput)
	}

	if len(r.Images) == 0 {
		return fmt.Errorf("%w: image set is empty", ErrInvalidInput)
	}

	if r.SpeechRate <= 0 || math.IsNaN(r.SpeechRate) || math.IsInf(r.SpeechRate, 0) {
		return fmt.Errorf(
			"%w: speech rate must be positive and finite, got %v",
			ErrInvalidInput, r.SpeechRate,
		)
	}

	if r.MusicVolume < 0 || r.MusicVolume > MaxMusicVolume {
		return fmt.Errorf(
			"%w: music volume must be within [0.0, %.1f], got %v",
			ErrInvalidInput, MaxMusicVolume, r.MusicVolume,
		)
	}

	if r.LeadInMS < 0 {
		return fmt.Errorf("%w: lead-in must be non-negative, got %d", ErrInvalidInput, r.LeadInMS)
	}

	if err := validateCanvas(r.CanvasWidth, r.CanvasHeight); err != nil {
		return err
	}

	if r.OutputPath == "" {
		return fmt.Errorf("%w: output path is empty", ErrInvalidInput)
	}

	return nil
}

func validateCanvas(width, height int) error {
	if width < MinCanvasDimension || width > MaxCanvasDimension {
		return fmt.Errorf(
			"%w: canvas width must be within [%d, %d], got %d",
			ErrInvalidInput, MinCanvasDimension, MaxCanvasDimension, width,
		)
	}

	if height < MinCanvasDimension || height > MaxCanvasDimension {
		return fmt.Errorf(
			"%w: canvas height must be within [%d, %d], got %d",
			ErrInvalidInput, MinCanvasDimension, MaxCanvasDimension, height,
		)
	}

	return nil
}
