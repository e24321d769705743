// Package render_test tests the canvas frame renderer.
package render_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/slideshow-service/internal/core"
	"github.com/book-expert/slideshow-service/internal/render"
)

var errMockResize = errors.New("mock resize error")

// mockResizer materializes destination files and can fail on one source.
type mockResizer struct {
	mu        sync.Mutex
	failFor   string
	gotWidth  int
	gotHeight int
	calls     int
}

func (m *mockResizer) Resize(_ context.Context, sourcePath, destPath string, width, height int) error {
	m.mu.Lock()
	m.calls++
	m.gotWidth = width
	m.gotHeight = height
	m.mu.Unlock()

	if m.failFor != "" && strings.Contains(sourcePath, m.failFor) {
		return errMockResize
	}

	return os.WriteFile(destPath, []byte("frame"), 0o600)
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(t.TempDir(), "render-test.log")
	require.NoError(t, err)

	return log
}

func orderedRefs(names ...string) []core.ImageReference {
	refs := make([]core.ImageReference, 0, len(names))
	for i, name := range names {
		refs = append(refs, core.ImageReference{Path: name, Position: i})
	}

	return refs
}

func TestRenderProducesOrderedFrames(t *testing.T) {
	t.Parallel()

	resizer := &mockResizer{}
	renderer := render.NewRenderer(resizer, 2, newTestLogger(t))
	framesDir := t.TempDir()

	frames, err := renderer.Render(
		context.Background(),
		framesDir,
		orderedRefs("a.jpg", "b.jpg", "c.jpg"),
		1280, 720,
	)
	require.NoError(t, err)
	require.Len(t, frames, 3)

	assert.Equal(t, filepath.Join(framesDir, "frame_0001.png"), frames[0].Path)
	assert.Equal(t, filepath.Join(framesDir, "frame_0002.png"), frames[1].Path)
	assert.Equal(t, filepath.Join(framesDir, "frame_0003.png"), frames[2].Path)

	for _, frame := range frames {
		assert.Equal(t, 1280, frame.Width)
		assert.Equal(t, 720, frame.Height)
		assert.Zero(t, frame.DisplayDuration)
		assert.FileExists(t, frame.Path)
	}

	assert.Equal(t, 3, resizer.calls)
	assert.Equal(t, 1280, resizer.gotWidth)
	assert.Equal(t, 720, resizer.gotHeight)
}

func TestRenderSingleImageFailureIsFatal(t *testing.T) {
	t.Parallel()

	resizer := &mockResizer{failFor: "b.jpg"}
	renderer := render.NewRenderer(resizer, 2, newTestLogger(t))

	frames, err := renderer.Render(
		context.Background(),
		t.TempDir(),
		orderedRefs("a.jpg", "b.jpg", "c.jpg"),
		1280, 720,
	)
	require.ErrorIs(t, err, core.ErrRender)
	require.ErrorIs(t, err, errMockResize)
	assert.ErrorContains(t, err, "b.jpg")
	assert.Nil(t, frames, "no partial frame set may be returned")
}

func TestRenderRejectsEmptyImageSet(t *testing.T) {
	t.Parallel()

	renderer := render.NewRenderer(&mockResizer{}, 2, newTestLogger(t))

	_, err := renderer.Render(context.Background(), t.TempDir(), nil, 1280, 720)
	require.ErrorIs(t, err, core.ErrInvalidInput)
}
