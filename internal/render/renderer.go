// Package render fits the ordered images onto the uniform output canvas. Each
// image is scaled to fit inside the canvas preserving aspect ratio and the
// remaining area is padded with a fixed fill color; frame filenames preserve
// the sequence order via a zero-padded index.
package render

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/book-expert/logger"
	"golang.org/x/sync/errgroup"

	"github.com/book-expert/slideshow-service/internal/core"
)

const frameNameFormat = "frame_%04d.png"

const defaultWorkers = 4

// Renderer renders every ordered image to a canvas frame. Rendering fans out
// across a bounded worker group and fails fast: any single image failure is
// fatal to the whole request.
type Renderer struct {
	resizer core.FrameResizer
	workers int
	log     *logger.Logger
}

// NewRenderer creates a renderer using at most workers concurrent resize calls.
func NewRenderer(resizer core.FrameResizer, workers int, log *logger.Logger) *Renderer {
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Renderer{resizer: resizer, workers: workers, log: log}
}

// Render produces one frame per ordered image inside framesDir. The returned
// frames carry no display duration yet; the timing allocator fills that in
// once the final audio duration is known.
func (r *Renderer) Render(
	ctx context.Context,
	framesDir string,
	ordered []core.ImageReference,
	canvasWidth, canvasHeight int,
) ([]core.RenderedFrame, error) {
	if len(ordered) == 0 {
		return nil, fmt.Errorf("%w: image set is empty", core.ErrInvalidInput)
	}

	frames := make([]core.RenderedFrame, len(ordered))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.workers)

	for index, ref := range ordered {
		group.Go(func() error {
			framePath := filepath.Join(framesDir, fmt.Sprintf(frameNameFormat, index+1))

			err := r.resizer.Resize(groupCtx, ref.Path, framePath, canvasWidth, canvasHeight)
			if err != nil {
				return fmt.Errorf("%w: image '%s': %w", core.ErrRender, ref.Basename(), err)
			}

			frames[index] = core.RenderedFrame{
				Path:            framePath,
				Width:           canvasWidth,
				Height:          canvasHeight,
				DisplayDuration: 0,
			}

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, err
	}

	if r.log != nil {
		r.log.Info("Rendered %d frames at %dx%d", len(frames), canvasWidth, canvasHeight)
	}

	return frames, nil
}
