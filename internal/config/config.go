// Package config provides the configuration structure for the slideshow-service.
package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// Pipeline defaults applied when the TOML document leaves a field unset.
const (
	DefaultSlideFloorSeconds = 0.5
	DefaultLeadInMS          = 500
	DefaultFrameRate         = 30
	DefaultCanvasWidth       = 1280
	DefaultCanvasHeight      = 720
	DefaultFillColor         = "black"
	DefaultSampleRate        = 44100
	DefaultRenderWorkers     = 4
	DefaultVoice             = "default"
	DefaultLocale            = "en"
	DefaultSpeechRate        = 1.0
)

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                       string `toml:"url"`
	SlideshowStreamName       string `toml:"slideshow_stream_name"`
	SlideshowConsumerName     string `toml:"slideshow_consumer_name"`
	SlideshowRequestedSubject string `toml:"slideshow_requested_subject"`
	VideoCreatedSubject       string `toml:"video_created_subject"`
	MediaObjectStoreBucket    string `toml:"media_object_store_bucket"`
}

// PipelineConfig holds the per-request assembly defaults.
type PipelineConfig struct {
	SlideFloorSeconds float64 `toml:"slide_floor_seconds"`
	LeadInMS          int     `toml:"lead_in_ms"`
	FrameRate         int     `toml:"frame_rate"`
	CanvasWidth       int     `toml:"canvas_width"`
	CanvasHeight      int     `toml:"canvas_height"`
	FillColor         string  `toml:"fill_color"`
	SampleRate        int     `toml:"sample_rate"`
	RenderWorkers     int     `toml:"render_workers"`
	Voice             string  `toml:"voice"`
	Locale            string  `toml:"locale"`
	SpeechRate        float64 `toml:"speech_rate"`
}

// EnginesConfig holds the external engine endpoints and binaries.
type EnginesConfig struct {
	FFmpegBinary         string `toml:"ffmpeg_binary"`
	FFprobeBinary        string `toml:"ffprobe_binary"`
	SpeechServiceURL     string `toml:"speech_service_url"`
	SpeechTimeoutSeconds int    `toml:"speech_timeout_seconds"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir   string `toml:"base_logs_dir"`
	WorkspaceRoot string `toml:"workspace_root"`
}

// Config is the root configuration structure.
type Config struct {
	NATS     NATSConfig     `toml:"nats"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Engines  EnginesConfig  `toml:"engines"`
	Paths    PathsConfig    `toml:"paths"`
}

// Load loads the configuration for the slideshow-service.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Pipeline.SlideFloorSeconds <= 0 {
		c.Pipeline.SlideFloorSeconds = DefaultSlideFloorSeconds
	}

	if c.Pipeline.LeadInMS <= 0 {
		c.Pipeline.LeadInMS = DefaultLeadInMS
	}

	if c.Pipeline.FrameRate <= 0 {
		c.Pipeline.FrameRate = DefaultFrameRate
	}

	if c.Pipeline.CanvasWidth <= 0 {
		c.Pipeline.CanvasWidth = DefaultCanvasWidth
	}

	if c.Pipeline.CanvasHeight <= 0 {
		c.Pipeline.CanvasHeight = DefaultCanvasHeight
	}

	if c.Pipeline.FillColor == "" {
		c.Pipeline.FillColor = DefaultFillColor
	}

	if c.Pipeline.SampleRate <= 0 {
		c.Pipeline.SampleRate = DefaultSampleRate
	}

	if c.Pipeline.RenderWorkers <= 0 {
		c.Pipeline.RenderWorkers = DefaultRenderWorkers
	}

	if c.Pipeline.Voice == "" {
		c.Pipeline.Voice = DefaultVoice
	}

	if c.Pipeline.Locale == "" {
		c.Pipeline.Locale = DefaultLocale
	}

	if c.Pipeline.SpeechRate <= 0 {
		c.Pipeline.SpeechRate = DefaultSpeechRate
	}

	if c.Engines.FFmpegBinary == "" {
		c.Engines.FFmpegBinary = "ffmpeg"
	}

	if c.Engines.FFprobeBinary == "" {
		c.Engines.FFprobeBinary = "ffprobe"
	}
}
