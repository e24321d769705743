// Package workspace owns the per-request ephemeral directory tree. Every
// artifact of one assembly job lives beneath a uniquely named root that is
// removed, best effort, when the job finishes regardless of outcome.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/book-expert/logger"
	"github.com/google/uuid"

	"github.com/book-expert/slideshow-service/internal/mediautil"
)

// Subdirectory names beneath the workspace root.
const (
	inputDirName  = "input"
	audioDirName  = "audio"
	framesDirName = "frames"
	outputDirName = "out"
)

// Workspace is the exclusively owned directory tree of a single request.
// Paths never alias across concurrent requests because every root carries a
// fresh UUID.
type Workspace struct {
	root string
	log  *logger.Logger
}

// New allocates a workspace beneath baseDir and creates the standard
// subdirectories. An empty baseDir falls back to the system temp directory.
func New(baseDir string, log *logger.Logger) (*Workspace, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}

	root := filepath.Join(baseDir, "slideshow-"+uuid.NewString())

	workspace := &Workspace{root: root, log: log}

	for _, dir := range []string{
		root,
		workspace.InputDir(),
		workspace.AudioDir(),
		workspace.FramesDir(),
		workspace.OutputDir(),
	} {
		err := mediautil.EnsureDir(dir)
		if err != nil {
			workspace.Cleanup()

			return nil, fmt.Errorf("failed to allocate workspace: %w", err)
		}
	}

	return workspace, nil
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string {
	return w.root
}

// InputDir holds downloaded job inputs (images, narration text, music).
func (w *Workspace) InputDir() string {
	return filepath.Join(w.root, inputDirName)
}

// AudioDir holds every audio timeline artifact.
func (w *Workspace) AudioDir() string {
	return filepath.Join(w.root, audioDirName)
}

// FramesDir holds the rendered canvas frames and the concat descriptor.
func (w *Workspace) FramesDir() string {
	return filepath.Join(w.root, framesDirName)
}

// OutputDir holds the final encoded container.
func (w *Workspace) OutputDir() string {
	return filepath.Join(w.root, outputDirName)
}

// InputPath returns a path beneath the input directory for the given name.
func (w *Workspace) InputPath(name string) string {
	return filepath.Join(w.InputDir(), mediautil.SanitizeFilename(name))
}

// AudioPath returns a path beneath the audio directory for the given name.
func (w *Workspace) AudioPath(name string) string {
	return filepath.Join(w.AudioDir(), name)
}

// FramePath returns a path beneath the frames directory for the given name.
func (w *Workspace) FramePath(name string) string {
	return filepath.Join(w.FramesDir(), name)
}

// OutputPath returns a path beneath the output directory for the given name.
func (w *Workspace) OutputPath(name string) string {
	return filepath.Join(w.OutputDir(), name)
}

// Cleanup removes the workspace tree recursively. Removal failure is logged,
// never raised: a stranded workspace must not mask the pipeline outcome.
func (w *Workspace) Cleanup() {
	removeErr := os.RemoveAll(w.root)
	if removeErr != nil && w.log != nil {
		w.log.Warn("Failed to remove workspace '%s': %v", w.root, removeErr)
	}
}
