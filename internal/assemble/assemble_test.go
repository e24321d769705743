// Package assemble_test tests the final encode invocation.
package assemble_test

import (
	"context"
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/slideshow-service/internal/assemble"
	"github.com/book-expert/slideshow-service/internal/core"
	"github.com/book-expert/slideshow-service/internal/media/ffmpegcmd"
)

func TestAssembleSurfacesEngineFailureAsEncodeError(t *testing.T) {
	t.Parallel()

	log, err := logger.New(t.TempDir(), "assemble-test.log")
	require.NoError(t, err)

	runner := ffmpegcmd.NewRunner("ffmpeg-binary-that-does-not-exist", log)
	invoker := assemble.NewInvoker(runner, 30, log)

	assembleErr := invoker.Assemble(context.Background(), "list.txt", "audio.wav", "out.mp4")
	require.ErrorIs(t, assembleErr, core.ErrEncode)
	require.ErrorContains(t, assembleErr, "execution failed")
}
