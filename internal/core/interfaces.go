// Package core defines the core interfaces and data model for the slideshow service.
package core

import "context"

// ObjectStore defines the interface for interacting with a key-value blob store.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// Synthesizer produces a raw narration artifact from text. The returned bytes
// are a complete lossless audio container (WAV).
type Synthesizer interface {
	Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error)
}

// AudioTransformer applies the audio timeline transforms. Every method reads
// one artifact and writes a new one; inputs are never mutated in place.
type AudioTransformer interface {
	Retime(ctx context.Context, inputPath, outputPath string, speed float64) error
	AddLeadIn(ctx context.Context, inputPath, outputPath string, leadInMS int) error
	Mix(
		ctx context.Context,
		narrationPath, backgroundPath, outputPath string,
		musicVolume, trimSeconds float64,
	) error
}

// MediaProber reads the authoritative metadata of a media artifact.
type MediaProber interface {
	Inspect(ctx context.Context, path string) (MediaInfo, error)
}

// FrameResizer fits a source image inside a target canvas, preserving aspect
// ratio and padding the remaining area with a fill color.
type FrameResizer interface {
	Resize(ctx context.Context, sourcePath, destPath string, width, height int) error
}

// Assembler issues the final encode pass combining the frame sequence and the
// narration track into a single video container.
type Assembler interface {
	Assemble(ctx context.Context, descriptorPath, audioPath, outputPath string) error
}
