package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/slideshow-service/internal/config"
	"github.com/book-expert/slideshow-service/internal/core"
)

func TestResolveNarration(t *testing.T) {
	t.Parallel()

	narrationFile := filepath.Join(t.TempDir(), "narration.txt")
	require.NoError(t, os.WriteFile(narrationFile, []byte("  From a file.\n"), 0o600))

	tests := []struct {
		name     string
		flags    appFlags
		wantText string
		wantErr  string
	}{
		{
			name:     "inline text",
			flags:    appFlags{text: "Hello, world!"},
			wantText: "Hello, world!",
			wantErr:  "",
		},
		{
			name:     "narration file is trimmed",
			flags:    appFlags{narration: narrationFile},
			wantText: "From a file.",
			wantErr:  "",
		},
		{
			name:     "neither provided",
			flags:    appFlags{},
			wantText: "",
			wantErr:  errEitherTextOrFile,
		},
		{
			name:     "both provided",
			flags:    appFlags{text: "x", narration: narrationFile},
			wantText: "",
			wantErr:  errCannotSpecifyBoth,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			text, err := resolveNarration(testCase.flags)
			if testCase.wantErr != "" {
				require.ErrorContains(t, err, testCase.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.wantText, text)
		})
	}
}

func TestCollectImagesFiltersNonImages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"01_a.jpg", "02_b.png", "notes.txt", "track.wav"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	images, err := collectImages(dir)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, 0, images[0].Position)
	assert.Equal(t, 1, images[1].Position)
}

func TestCollectImagesRejectsEmptyDirectory(t *testing.T) {
	t.Parallel()

	_, err := collectImages(t.TempDir())
	require.ErrorContains(t, err, "no usable images")
}

func TestBuildRequestAppliesConfiguredDefaults(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Pipeline.Voice = "default"
	cfg.Pipeline.Locale = "en"
	cfg.Pipeline.SpeechRate = 1.0
	cfg.Pipeline.LeadInMS = 500
	cfg.Pipeline.CanvasWidth = 1280
	cfg.Pipeline.CanvasHeight = 720

	images, err := collectImagesFixture(t)
	require.NoError(t, err)

	flags := appFlags{leadInMS: -1}
	request := buildRequest(cfg, flags, "Some narration.", images)

	assert.Equal(t, "default", request.Voice)
	assert.Equal(t, "en", request.Locale)
	assert.InDelta(t, 1.0, request.SpeechRate, 1e-9)
	assert.Equal(t, 500, request.LeadInMS)
	assert.Equal(t, 1280, request.CanvasWidth)
	assert.Equal(t, 720, request.CanvasHeight)
	assert.Equal(t, defaultOutputFile, request.OutputPath)
	assert.Zero(t, request.MusicVolume, "volume is meaningless without music")
	require.NoError(t, request.Validate())
}

func collectImagesFixture(t *testing.T) ([]core.ImageReference, error) {
	t.Helper()

	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, "01_a.jpg"), []byte("x"), 0o600)
	if err != nil {
		return nil, err
	}

	return collectImages(dir)
}
