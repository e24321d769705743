package synth

import (
	"context"
	"fmt"
	"time"

	"github.com/book-expert/logger"

	"github.com/book-expert/slideshow-service/internal/core"
	"github.com/book-expert/slideshow-service/internal/synth/text"
)

// Engine implements core.Synthesizer: it normalizes narration text and calls
// the speech service, mapping failures into the synthesis error class.
type Engine struct {
	client     *HTTPClient
	normalizer *text.Normalizer
	log        *logger.Logger
}

// NewEngine creates a synthesis engine for the service at serviceURL.
func NewEngine(serviceURL string, timeout time.Duration, log *logger.Logger) *Engine {
	return &Engine{
		client:     NewHTTPClient(serviceURL, timeout),
		normalizer: text.NewNormalizer(),
		log:        log,
	}
}

// Synthesize normalizes the narration text and returns the raw WAV bytes.
func (e *Engine) Synthesize(ctx context.Context, req core.SpeechRequest) ([]byte, error) {
	normalized := e.normalizer.Normalize(req.Text)
	if normalized == "" {
		return nil, fmt.Errorf("%w: narration text is empty after normalization", core.ErrInvalidInput)
	}

	audioData, err := e.client.Synthesize(ctx, normalized, req.Voice, req.Locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSynthesis, err)
	}

	if e.log != nil {
		e.log.Info("Synthesized narration: %d bytes for %d characters", len(audioData), len(normalized))
	}

	return audioData, nil
}

// HealthCheck verifies the speech service is reachable before a job starts.
func (e *Engine) HealthCheck(ctx context.Context) error {
	err := e.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrSynthesis, err)
	}

	return nil
}
