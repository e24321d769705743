// main package for the slideshow command-line client. It runs the assembly
// pipeline locally against a directory of images and a narration text file,
// without going through NATS.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/book-expert/logger"

	"github.com/book-expert/slideshow-service/internal/assemble"
	"github.com/book-expert/slideshow-service/internal/config"
	"github.com/book-expert/slideshow-service/internal/core"
	"github.com/book-expert/slideshow-service/internal/media/ffmpegcmd"
	"github.com/book-expert/slideshow-service/internal/media/ffprobe"
	"github.com/book-expert/slideshow-service/internal/mediautil"
	"github.com/book-expert/slideshow-service/internal/pipeline"
	"github.com/book-expert/slideshow-service/internal/render"
	"github.com/book-expert/slideshow-service/internal/synth"
	"github.com/book-expert/slideshow-service/internal/timeline"
	"github.com/book-expert/slideshow-service/internal/workspace"
)

// Flag descriptions.
const (
	flagImagesDesc    = "Directory of slide images (required)"
	flagTextDesc      = "Narration text"
	flagNarrationDesc = "File containing the narration text"
	flagMusicDesc     = "Background music file (.wav/.mp3)"
	flagOutputDesc    = "Output video path (.mp4)"
	flagVoiceDesc     = "Narration voice"
	flagLocaleDesc    = "BCP 47 locale for image ordering and synthesis"
	flagRateDesc      = "Speech rate multiplier"
	flagVolumeDesc    = "Background music volume [0.0, 1.0]"
	flagLeadInDesc    = "Lead-in silence in milliseconds"
	flagWidthDesc     = "Canvas width in pixels"
	flagHeightDesc    = "Canvas height in pixels"
	flagHealthDesc    = "Check speech service health and exit"
)

// Error and log messages.
const (
	errFailedToLoadConfig  = "Failed to load configuration: %v"
	errFailedToInitLogger  = "Failed to initialize logger: %v"
	errHealthCheckFailed   = "Health check failed: %v"
	errServiceNotHealthy   = "Speech service is not healthy: %v\n"
	msgServiceHealthy      = "Speech service is healthy"
	errImagesDirRequired   = "--images must be provided"
	errEitherTextOrFile    = "Either --text or --narration must be provided"
	errCannotSpecifyBoth   = "Cannot specify both --text and --narration"
	errNoImagesFound       = "no usable images found in '%s'"
	errFailedToAssemble    = "Failed to assemble slideshow: %v"
	logClientInitialized   = "Slideshow client initialized"
	logAssembling          = "Assembling slideshow from %d images to: %s"
	msgGenerated           = "Generated: %s (%d frames, %.1fs audio, %.2fs per slide)\n"
	logFileName            = "slideshow-client.log"
	defaultOutputFile      = "slideshow.mp4"
	healthCheckTimeout     = 10 * time.Second
)

// appFlags holds the parsed command-line flag values.
type appFlags struct {
	images    string
	text      string
	narration string
	music     string
	output    string
	voice     string
	locale    string
	rate      float64
	volume    float64
	leadInMS  int
	width     int
	height    int
	health    bool
}

func main() {
	err := run()
	if err != nil {
		// A logger might not be initialized yet, so use the standard log package.
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	flags := parseFlags()

	cfg, logInstance, err := setup()
	if err != nil {
		return err
	}

	defer func() {
		closeErr := logInstance.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing logger: %v\n", closeErr)
		}
	}()

	logInstance.Info(logClientInitialized)

	if flags.health {
		return handleHealthCheck(cfg, logInstance)
	}

	return handleExecution(cfg, logInstance, flags)
}

// parseFlags defines and parses command-line flags, returning them in a struct.
func parseFlags() appFlags {
	var flags appFlags
	flag.StringVar(&flags.images, "images", "", flagImagesDesc)
	flag.StringVar(&flags.text, "text", "", flagTextDesc)
	flag.StringVar(&flags.narration, "narration", "", flagNarrationDesc)
	flag.StringVar(&flags.music, "music", "", flagMusicDesc)
	flag.StringVar(&flags.output, "output", "", flagOutputDesc)
	flag.StringVar(&flags.voice, "voice", "", flagVoiceDesc)
	flag.StringVar(&flags.locale, "locale", "", flagLocaleDesc)
	flag.Float64Var(&flags.rate, "rate", 0, flagRateDesc)
	flag.Float64Var(&flags.volume, "music-volume", 0.2, flagVolumeDesc)
	flag.IntVar(&flags.leadInMS, "lead-in", -1, flagLeadInDesc)
	flag.IntVar(&flags.width, "width", 0, flagWidthDesc)
	flag.IntVar(&flags.height, "height", 0, flagHeightDesc)
	flag.BoolVar(&flags.health, "health", false, flagHealthDesc)
	flag.Parse()

	return flags
}

// setup loads the configuration and initializes the logger.
func setup() (*config.Config, *logger.Logger, error) {
	bootstrapLog, err := logger.New(os.TempDir(), logFileName)
	if err != nil {
		return nil, nil, fmt.Errorf(errFailedToInitLogger, err)
	}

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		return nil, nil, fmt.Errorf(errFailedToLoadConfig, err)
	}

	logInstance, err := logger.New(cfg.Paths.BaseLogsDir, logFileName)
	if err != nil {
		return nil, nil, fmt.Errorf(errFailedToInitLogger, err)
	}

	return cfg, logInstance, nil
}

// handleHealthCheck probes the speech service and prints the result.
func handleHealthCheck(cfg *config.Config, logInstance *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	engine := synth.NewEngine(cfg.Engines.SpeechServiceURL, healthCheckTimeout, logInstance)

	err := engine.HealthCheck(ctx)
	if err != nil {
		logInstance.Error(errHealthCheckFailed, err)
		fmt.Printf(errServiceNotHealthy, err)

		return err
	}

	fmt.Println(msgServiceHealthy)

	return nil
}

// handleExecution validates flags, stages inputs, and runs the pipeline.
func handleExecution(cfg *config.Config, logInstance *logger.Logger, flags appFlags) error {
	if flags.images == "" {
		flag.Usage()

		return errors.New(errImagesDirRequired)
	}

	narrationText, err := resolveNarration(flags)
	if err != nil {
		return err
	}

	images, err := collectImages(flags.images)
	if err != nil {
		return err
	}

	request := buildRequest(cfg, flags, narrationText, images)

	logInstance.Info(logAssembling, len(images), request.OutputPath)

	result, err := runPipeline(cfg, logInstance, request)
	if err != nil {
		logInstance.Error(errFailedToAssemble, err)

		return fmt.Errorf(errFailedToAssemble, err)
	}

	fmt.Printf(
		msgGenerated,
		result.VideoPath, result.FrameCount,
		result.AudioDurationSeconds, result.PerSlideSeconds,
	)

	return nil
}

// resolveNarration returns the narration text from --text or --narration.
func resolveNarration(flags appFlags) (string, error) {
	if flags.text == "" && flags.narration == "" {
		return "", errors.New(errEitherTextOrFile)
	}

	if flags.text != "" && flags.narration != "" {
		return "", errors.New(errCannotSpecifyBoth)
	}

	if flags.text != "" {
		return flags.text, nil
	}

	data, err := os.ReadFile(flags.narration)
	if err != nil {
		return "", fmt.Errorf("failed to read narration file: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// collectImages lists the usable images of the directory. Directory listing
// order defines the original input positions; the pipeline re-orders by the
// embedded sequence numbers.
func collectImages(dir string) ([]core.ImageReference, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read images directory: %w", err)
	}

	images := make([]core.ImageReference, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !mediautil.IsValidImageFile(entry.Name()) {
			continue
		}

		images = append(images, core.ImageReference{
			Path:     filepath.Join(dir, entry.Name()),
			Position: len(images),
		})
	}

	if len(images) == 0 {
		return nil, fmt.Errorf(errNoImagesFound, dir)
	}

	return images, nil
}

func buildRequest(
	cfg *config.Config,
	flags appFlags,
	narrationText string,
	images []core.ImageReference,
) core.PipelineRequest {
	request := core.PipelineRequest{
		NarrationText:       narrationText,
		Voice:               flags.voice,
		Locale:              flags.locale,
		CanvasWidth:         flags.width,
		CanvasHeight:        flags.height,
		Images:              images,
		BackgroundMusicPath: flags.music,
		MusicVolume:         0,
		SpeechRate:          flags.rate,
		LeadInMS:            flags.leadInMS,
		OutputPath:          flags.output,
	}

	if flags.music != "" {
		request.MusicVolume = flags.volume
	}

	if request.Voice == "" {
		request.Voice = cfg.Pipeline.Voice
	}

	if request.Locale == "" {
		request.Locale = cfg.Pipeline.Locale
	}

	if request.SpeechRate == 0 {
		request.SpeechRate = cfg.Pipeline.SpeechRate
	}

	if request.LeadInMS < 0 {
		request.LeadInMS = cfg.Pipeline.LeadInMS
	}

	if request.CanvasWidth == 0 {
		request.CanvasWidth = cfg.Pipeline.CanvasWidth
	}

	if request.CanvasHeight == 0 {
		request.CanvasHeight = cfg.Pipeline.CanvasHeight
	}

	if request.OutputPath == "" {
		request.OutputPath = defaultOutputFile
	}

	return request
}

// runPipeline wires the engines, allocates a workspace, and runs one job.
func runPipeline(
	cfg *config.Config,
	logInstance *logger.Logger,
	request core.PipelineRequest,
) (pipeline.Result, error) {
	ffmpegRunner := ffmpegcmd.NewRunner(cfg.Engines.FFmpegBinary, logInstance)
	prober := ffprobe.New(cfg.Engines.FFprobeBinary)

	speechTimeout := time.Duration(cfg.Engines.SpeechTimeoutSeconds) * time.Second
	synthesizer := synth.NewEngine(cfg.Engines.SpeechServiceURL, speechTimeout, logInstance)

	transformer := timeline.NewTransformer(ffmpegRunner, cfg.Pipeline.SampleRate, logInstance)
	audioTimeline := timeline.NewAudioTimeline(synthesizer, transformer, prober, logInstance)

	resizer := render.NewFFmpegResizer(ffmpegRunner, cfg.Pipeline.FillColor)
	renderer := render.NewRenderer(resizer, cfg.Pipeline.RenderWorkers, logInstance)

	assembler := assemble.NewInvoker(ffmpegRunner, cfg.Pipeline.FrameRate, logInstance)

	assemblyPipeline := pipeline.New(
		audioTimeline, renderer, assembler,
		cfg.Pipeline.SlideFloorSeconds, logInstance,
	)

	ws, err := workspace.New(cfg.Paths.WorkspaceRoot, logInstance)
	if err != nil {
		return pipeline.Result{}, err
	}
	defer ws.Cleanup()

	result, err := assemblyPipeline.Run(context.Background(), ws, request)
	if err != nil {
		return pipeline.Result{}, err
	}

	return result, nil
}
