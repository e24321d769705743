// Package ffprobe_test tests probe input validation and report decoding.
package ffprobe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/book-expert/slideshow-service/internal/media/ffprobe"
)

func TestInspectRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	prober := ffprobe.New("")

	_, err := prober.Inspect(context.Background(), "   ")
	require.ErrorIs(t, err, ffprobe.ErrEmptyPath)
}

func TestInspectSurfacesEngineFailure(t *testing.T) {
	t.Parallel()

	// A binary that certainly does not exist surfaces an execution error
	// rather than a zero-valued result.
	prober := ffprobe.New("ffprobe-binary-that-does-not-exist")

	_, err := prober.Inspect(context.Background(), "whatever.wav")
	require.Error(t, err)
	require.ErrorContains(t, err, "ffprobe inspect failed")
}
