// Package mediautil_test tests the media utility helpers.
package mediautil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/slideshow-service/internal/mediautil"
)

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "nested", "artifacts")

	err := mediautil.EnsureDir(target)
	require.NoError(t, err)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Ensuring an existing directory is a no-op.
	err = mediautil.EnsureDir(target)
	require.NoError(t, err)
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "45.2s", mediautil.FormatDuration(45.2))
	assert.Equal(t, "5m 30.5s", mediautil.FormatDuration(330.5))
	assert.Equal(t, "1h 15m", mediautil.FormatDuration(4500))
}

func TestFormatFileSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", mediautil.FormatFileSize(512))
	assert.Equal(t, "1.5 KB", mediautil.FormatFileSize(1536))
	assert.Equal(t, "2.0 MB", mediautil.FormatFileSize(2*1024*1024))
	assert.Equal(t, "3.0 GB", mediautil.FormatFileSize(3*1024*1024*1024))
}

func TestIsValidImageFile(t *testing.T) {
	t.Parallel()

	assert.True(t, mediautil.IsValidImageFile("slide_01.jpg"))
	assert.True(t, mediautil.IsValidImageFile("cover.PNG"))
	assert.True(t, mediautil.IsValidImageFile("photo.webp"))
	assert.False(t, mediautil.IsValidImageFile("narration.wav"))
	assert.False(t, mediautil.IsValidImageFile("notes.txt"))
}

func TestIsValidAudioFile(t *testing.T) {
	t.Parallel()

	assert.True(t, mediautil.IsValidAudioFile("music.mp3"))
	assert.True(t, mediautil.IsValidAudioFile("narration.WAV"))
	assert.False(t, mediautil.IsValidAudioFile("slide.jpg"))
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a_b_c.png", mediautil.SanitizeFilename("a/b:c.png"))
	assert.Equal(t, "plain.jpg", mediautil.SanitizeFilename("plain.jpg"))
}
