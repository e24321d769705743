// Package timeline composes the audio timeline transforms and the slide
// timing math: retiming, lead-in silence, duration probing, optional
// background mixing, per-slide duration allocation, and the concat descriptor
// handed to the encoder.
package timeline

import (
	"fmt"
	"math"

	"github.com/book-expert/slideshow-service/internal/core"
)

// The elementary retime stage is confined to [0.5, 2.0]; anything outside is
// expressed as a chain of extreme stages plus one residual stage.
const (
	minStageFactor = 0.5
	maxStageFactor = 2.0
	// identityWindow is the half-width around 1.0 inside which retiming is a
	// plain copy.
	identityWindow = 1e-3
)

// RetimePlan expresses a tempo factor as a chain of elementary stage factors,
// each inside [0.5, 2.0], whose product equals speed. An empty plan means the
// input is copied unchanged.
func RetimePlan(speed float64) ([]float64, error) {
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return nil, fmt.Errorf(
			"%w: retime speed must be positive and finite, got %v",
			core.ErrInvalidInput, speed,
		)
	}

	if math.Abs(speed-1) < identityWindow {
		return nil, nil
	}

	var stages []float64

	remaining := speed
	for remaining > maxStageFactor {
		stages = append(stages, maxStageFactor)
		remaining /= maxStageFactor
	}

	for remaining < minStageFactor {
		stages = append(stages, minStageFactor)
		remaining /= minStageFactor
	}

	return append(stages, remaining), nil
}
