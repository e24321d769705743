package timeline

import (
	"context"
	"fmt"
	"os"

	"github.com/book-expert/logger"

	"github.com/book-expert/slideshow-service/internal/core"
	"github.com/book-expert/slideshow-service/internal/mediautil"
	"github.com/book-expert/slideshow-service/internal/workspace"
)

// Audio artifact names inside the workspace audio directory. Every stage
// produces a new artifact; earlier ones stay untouched until teardown.
const (
	rawArtifactName     = "narration_raw.wav"
	retimedArtifactName = "narration_retimed.wav"
	paddedArtifactName  = "narration_padded.wav"
	mixedArtifactName   = "narration_mixed.wav"
)

const rawArtifactPermissions = 0o600

// BuildParams carries the audio-relevant fields of one assembly job.
type BuildParams struct {
	Text                string
	Voice               string
	Locale              string
	SpeechRate          float64
	LeadInMS            int
	BackgroundMusicPath string
	MusicVolume         float64
}

// AudioTimeline runs the fixed transform chain that produces the final
// narration track: synthesize, retime, pad, probe, and optionally mix
// background music trimmed to the probed pre-mix duration.
type AudioTimeline struct {
	synthesizer core.Synthesizer
	transformer core.AudioTransformer
	prober      core.MediaProber
	log         *logger.Logger
}

// NewAudioTimeline wires the timeline's collaborators.
func NewAudioTimeline(
	synthesizer core.Synthesizer,
	transformer core.AudioTransformer,
	prober core.MediaProber,
	log *logger.Logger,
) *AudioTimeline {
	return &AudioTimeline{
		synthesizer: synthesizer,
		transformer: transformer,
		prober:      prober,
		log:         log,
	}
}

// Build produces the final narration segment inside the workspace.
func (t *AudioTimeline) Build(
	ctx context.Context,
	ws *workspace.Workspace,
	params BuildParams,
) (core.AudioSegment, error) {
	rawPath := ws.AudioPath(rawArtifactName)

	err := t.synthesize(ctx, params, rawPath)
	if err != nil {
		return core.AudioSegment{}, err
	}

	retimedPath := ws.AudioPath(retimedArtifactName)

	err = t.transformer.Retime(ctx, rawPath, retimedPath, params.SpeechRate)
	if err != nil {
		return core.AudioSegment{}, fmt.Errorf("failed to retime narration: %w", err)
	}

	paddedPath := ws.AudioPath(paddedArtifactName)

	err = t.transformer.AddLeadIn(ctx, retimedPath, paddedPath, params.LeadInMS)
	if err != nil {
		return core.AudioSegment{}, fmt.Errorf("failed to add lead-in silence: %w", err)
	}

	info, err := t.prober.Inspect(ctx, paddedPath)
	if err != nil {
		return core.AudioSegment{}, fmt.Errorf("failed to probe narration duration: %w", err)
	}

	finalPath := paddedPath

	if params.BackgroundMusicPath != "" {
		mixedPath := ws.AudioPath(mixedArtifactName)

		// The mix is trimmed to the probed pre-mix duration, so mixing
		// never changes the total duration.
		err = t.transformer.Mix(
			ctx,
			paddedPath, params.BackgroundMusicPath, mixedPath,
			params.MusicVolume, info.DurationSeconds,
		)
		if err != nil {
			return core.AudioSegment{}, fmt.Errorf("failed to mix background music: %w", err)
		}

		finalPath = mixedPath
	}

	if t.log != nil {
		t.log.Info(
			"Audio timeline complete: %s (%s)",
			finalPath, mediautil.FormatDuration(info.DurationSeconds),
		)
	}

	return core.AudioSegment{
		Path:            finalPath,
		SampleRate:      info.SampleRate,
		Channels:        info.Channels,
		DurationSeconds: info.DurationSeconds,
	}, nil
}

func (t *AudioTimeline) synthesize(ctx context.Context, params BuildParams, rawPath string) error {
	audioData, err := t.synthesizer.Synthesize(ctx, core.SpeechRequest{
		Text:   params.Text,
		Voice:  params.Voice,
		Locale: params.Locale,
	})
	if err != nil {
		return fmt.Errorf("failed to synthesize narration: %w", err)
	}

	err = os.WriteFile(rawPath, audioData, rawArtifactPermissions)
	if err != nil {
		return fmt.Errorf("failed to write raw narration artifact: %w", err)
	}

	return nil
}
