package timeline_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/slideshow-service/internal/core"
	"github.com/book-expert/slideshow-service/internal/timeline"
	"github.com/book-expert/slideshow-service/internal/workspace"
)

var errMockSynthesis = errors.New("mock synthesis error")

type mockSynthesizer struct {
	shouldFail bool
	gotText    string
}

func (m *mockSynthesizer) Synthesize(_ context.Context, req core.SpeechRequest) ([]byte, error) {
	if m.shouldFail {
		return nil, errMockSynthesis
	}

	m.gotText = req.Text

	return []byte("raw audio"), nil
}

// mockTransformer records the stage calls and materializes each output
// artifact so the next stage has a file to read.
type mockTransformer struct {
	stages       []string
	gotSpeed     float64
	gotLeadInMS  int
	gotVolume    float64
	gotTrim      float64
	gotMusicPath string
}

func (m *mockTransformer) Retime(_ context.Context, _, outputPath string, speed float64) error {
	m.stages = append(m.stages, "retime")
	m.gotSpeed = speed

	return os.WriteFile(outputPath, []byte("retimed"), 0o600)
}

func (m *mockTransformer) AddLeadIn(_ context.Context, _, outputPath string, leadInMS int) error {
	m.stages = append(m.stages, "leadin")
	m.gotLeadInMS = leadInMS

	return os.WriteFile(outputPath, []byte("padded"), 0o600)
}

func (m *mockTransformer) Mix(
	_ context.Context,
	_, backgroundPath, outputPath string,
	musicVolume, trimSeconds float64,
) error {
	m.stages = append(m.stages, "mix")
	m.gotMusicPath = backgroundPath
	m.gotVolume = musicVolume
	m.gotTrim = trimSeconds

	return os.WriteFile(outputPath, []byte("mixed"), 0o600)
}

type mockProber struct {
	info core.MediaInfo
}

func (m *mockProber) Inspect(_ context.Context, _ string) (core.MediaInfo, error) {
	return m.info, nil
}

func setupAudioTimeline(t *testing.T) (
	*timeline.AudioTimeline,
	*mockSynthesizer,
	*mockTransformer,
	*workspace.Workspace,
) {
	t.Helper()

	log, err := logger.New(t.TempDir(), "timeline-test.log")
	require.NoError(t, err)

	ws, err := workspace.New(t.TempDir(), log)
	require.NoError(t, err)
	t.Cleanup(ws.Cleanup)

	synthesizer := &mockSynthesizer{shouldFail: false, gotText: ""}
	transformer := &mockTransformer{}
	prober := &mockProber{info: core.MediaInfo{
		DurationSeconds: 10.0,
		SampleRate:      44100,
		Channels:        1,
		Width:           0,
		Height:          0,
	}}

	return timeline.NewAudioTimeline(synthesizer, transformer, prober, log),
		synthesizer, transformer, ws
}

func TestAudioTimelineBuildWithoutMusic(t *testing.T) {
	t.Parallel()

	audioTimeline, synthesizer, transformer, ws := setupAudioTimeline(t)

	segment, err := audioTimeline.Build(context.Background(), ws, timeline.BuildParams{
		Text:                "Hello slides.",
		Voice:               "narrator-1",
		Locale:              "en",
		SpeechRate:          1.25,
		LeadInMS:            500,
		BackgroundMusicPath: "",
		MusicVolume:         0,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello slides.", synthesizer.gotText)
	assert.Equal(t, []string{"retime", "leadin"}, transformer.stages)
	assert.InEpsilon(t, 1.25, transformer.gotSpeed, 1e-9)
	assert.Equal(t, 500, transformer.gotLeadInMS)
	assert.InEpsilon(t, 10.0, segment.DurationSeconds, 1e-9)
	assert.Equal(t, 44100, segment.SampleRate)
	assert.Contains(t, segment.Path, "narration_padded.wav")
}

func TestAudioTimelineBuildWithMusicTrimsToProbedDuration(t *testing.T) {
	t.Parallel()

	audioTimeline, _, transformer, ws := setupAudioTimeline(t)

	segment, err := audioTimeline.Build(context.Background(), ws, timeline.BuildParams{
		Text:                "Hello slides.",
		Voice:               "narrator-1",
		Locale:              "en",
		SpeechRate:          1.0,
		LeadInMS:            500,
		BackgroundMusicPath: "/music/track.mp3",
		MusicVolume:         0.2,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"retime", "leadin", "mix"}, transformer.stages)
	assert.Equal(t, "/music/track.mp3", transformer.gotMusicPath)
	assert.InEpsilon(t, 0.2, transformer.gotVolume, 1e-9)

	// The mix duration is forced to the probed pre-mix duration regardless
	// of the background length.
	assert.InEpsilon(t, 10.0, transformer.gotTrim, 1e-9)
	assert.InEpsilon(t, 10.0, segment.DurationSeconds, 1e-9)
	assert.Contains(t, segment.Path, "narration_mixed.wav")
}

func TestAudioTimelineSurfacesSynthesisFailure(t *testing.T) {
	t.Parallel()

	audioTimeline, synthesizer, transformer, ws := setupAudioTimeline(t)
	synthesizer.shouldFail = true

	_, err := audioTimeline.Build(context.Background(), ws, timeline.BuildParams{
		Text:                "Hello slides.",
		Voice:               "narrator-1",
		Locale:              "en",
		SpeechRate:          1.0,
		LeadInMS:            0,
		BackgroundMusicPath: "",
		MusicVolume:         0,
	})
	require.ErrorIs(t, err, errMockSynthesis)
	assert.Empty(t, transformer.stages, "no transform stage may run after synthesis fails")
}
