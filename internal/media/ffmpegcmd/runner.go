package ffmpegcmd

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/book-expert/logger"
)

// Runner executes command descriptors against the configured ffmpeg binary.
type Runner struct {
	binary string
	log    *logger.Logger
}

// NewRunner creates a runner. An empty binary falls back to "ffmpeg" on PATH.
func NewRunner(binary string, log *logger.Logger) *Runner {
	if binary == "" {
		binary = "ffmpeg"
	}

	return &Runner{binary: binary, log: log}
}

// Run executes the descriptor and returns the engine diagnostics on failure.
// Cancelling ctx terminates the in-flight process.
func (r *Runner) Run(ctx context.Context, command Command) error {
	args := command.Args()

	if r.log != nil {
		r.log.Info("Running %s %s", r.binary, strings.Join(args, " "))
	}

	// #nosec G204 -- the argument list is built from the typed descriptor
	cmd := exec.CommandContext(ctx, r.binary, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf(
			"%s execution failed: %w - output: %s",
			r.binary, err, strings.TrimSpace(string(output)),
		)
	}

	return nil
}
