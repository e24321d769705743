// Package pipeline orchestrates one complete assembly job: narration audio and
// canvas frames are produced concurrently, slide timing is allocated from the
// final audio duration, and the concat descriptor drives the final encode.
package pipeline

import (
	"context"
	"fmt"

	"github.com/book-expert/logger"
	"golang.org/x/sync/errgroup"

	"github.com/book-expert/slideshow-service/internal/core"
	"github.com/book-expert/slideshow-service/internal/sequence"
	"github.com/book-expert/slideshow-service/internal/timeline"
	"github.com/book-expert/slideshow-service/internal/workspace"
)

const descriptorFileName = "frames.txt"

// AudioBuilder produces the final narration segment inside the workspace.
type AudioBuilder interface {
	Build(ctx context.Context, ws *workspace.Workspace, params timeline.BuildParams) (core.AudioSegment, error)
}

// FrameRenderer renders the ordered images onto uniform canvas frames.
type FrameRenderer interface {
	Render(
		ctx context.Context,
		framesDir string,
		ordered []core.ImageReference,
		canvasWidth, canvasHeight int,
	) ([]core.RenderedFrame, error)
}

// Result summarizes a finished assembly job.
type Result struct {
	VideoPath            string
	AudioDurationSeconds float64
	FrameCount           int
	PerSlideSeconds      float64
}

// Pipeline runs assembly jobs. The audio and image branches are independent
// until timing allocation, so they execute concurrently; a failure on either
// branch cancels the other.
type Pipeline struct {
	audio             AudioBuilder
	renderer          FrameRenderer
	assembler         core.Assembler
	slideFloorSeconds float64
	log               *logger.Logger
}

// New wires the pipeline's collaborators. A non-positive slideFloorSeconds
// falls back to the default floor.
func New(
	audio AudioBuilder,
	renderer FrameRenderer,
	assembler core.Assembler,
	slideFloorSeconds float64,
	log *logger.Logger,
) *Pipeline {
	if slideFloorSeconds <= 0 {
		slideFloorSeconds = timeline.DefaultSlideFloorSeconds
	}

	return &Pipeline{
		audio:             audio,
		renderer:          renderer,
		assembler:         assembler,
		slideFloorSeconds: slideFloorSeconds,
		log:               log,
	}
}

// Run executes one assembly job inside the caller-owned workspace and returns
// the encoded video description. The request is validated before any external
// call is made.
func (p *Pipeline) Run(
	ctx context.Context,
	ws *workspace.Workspace,
	request core.PipelineRequest,
) (Result, error) {
	err := request.Validate()
	if err != nil {
		return Result{}, fmt.Errorf("invalid assembly request: %w", err)
	}

	ordered := sequence.New(request.Locale).Order(request.Images)

	var (
		segment core.AudioSegment
		frames  []core.RenderedFrame
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var buildErr error

		segment, buildErr = p.audio.Build(groupCtx, ws, timeline.BuildParams{
			Text:                request.NarrationText,
			Voice:               request.Voice,
			Locale:              request.Locale,
			SpeechRate:          request.SpeechRate,
			LeadInMS:            request.LeadInMS,
			BackgroundMusicPath: request.BackgroundMusicPath,
			MusicVolume:         request.MusicVolume,
		})

		return buildErr
	})

	group.Go(func() error {
		var renderErr error

		frames, renderErr = p.renderer.Render(
			groupCtx, ws.FramesDir(), ordered,
			request.CanvasWidth, request.CanvasHeight,
		)

		return renderErr
	})

	err = group.Wait()
	if err != nil {
		return Result{}, err
	}

	perSlide := timeline.PerSlideDuration(segment.DurationSeconds, len(frames), p.slideFloorSeconds)
	for index := range frames {
		frames[index].DisplayDuration = perSlide
	}

	descriptorPath := ws.FramePath(descriptorFileName)

	err = timeline.WriteConcatDescriptor(descriptorPath, frames, perSlide)
	if err != nil {
		return Result{}, err
	}

	err = p.assembler.Assemble(ctx, descriptorPath, segment.Path, request.OutputPath)
	if err != nil {
		return Result{}, err
	}

	if p.log != nil {
		p.log.Info(
			"Assembly complete: %s (%d frames, %.3fs per slide, %.3fs audio)",
			request.OutputPath, len(frames), perSlide, segment.DurationSeconds,
		)
	}

	return Result{
		VideoPath:            request.OutputPath,
		AudioDurationSeconds: segment.DurationSeconds,
		FrameCount:           len(frames),
		PerSlideSeconds:      perSlide,
	}, nil
}
