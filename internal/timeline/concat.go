package timeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/book-expert/slideshow-service/internal/core"
)

const descriptorFilePermissions = 0o600

// BuildConcatDescriptor renders the ordered (frame, duration) sequence for the
// encoder's concat demuxer. Every frame except the last is paired with the
// per-slide duration; the last frame is emitted twice without one, so the
// playback primitive holds it instead of showing it for zero time.
func BuildConcatDescriptor(frames []core.RenderedFrame, perSlideSeconds float64) string {
	if len(frames) == 0 {
		return ""
	}

	var builder strings.Builder

	for _, frame := range frames[:len(frames)-1] {
		fmt.Fprintf(&builder, "file '%s'\n", escapeConcatPath(frame.Path))
		fmt.Fprintf(&builder, "duration %.3f\n", perSlideSeconds)
	}

	last := frames[len(frames)-1]
	fmt.Fprintf(&builder, "file '%s'\n", escapeConcatPath(last.Path))
	fmt.Fprintf(&builder, "file '%s'\n", escapeConcatPath(last.Path))

	return builder.String()
}

// WriteConcatDescriptor writes the descriptor to path.
func WriteConcatDescriptor(path string, frames []core.RenderedFrame, perSlideSeconds float64) error {
	descriptor := BuildConcatDescriptor(frames, perSlideSeconds)

	err := os.WriteFile(path, []byte(descriptor), descriptorFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to write concat descriptor: %w", err)
	}

	return nil
}

// escapeConcatPath escapes single quotes, which the descriptor syntax
// reserves for path quoting.
func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}
