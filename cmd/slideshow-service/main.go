// main package for the slideshow-service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/slideshow-service/internal/assemble"
	"github.com/book-expert/slideshow-service/internal/config"
	"github.com/book-expert/slideshow-service/internal/media/ffmpegcmd"
	"github.com/book-expert/slideshow-service/internal/media/ffprobe"
	"github.com/book-expert/slideshow-service/internal/objectstore"
	"github.com/book-expert/slideshow-service/internal/pipeline"
	"github.com/book-expert/slideshow-service/internal/render"
	"github.com/book-expert/slideshow-service/internal/synth"
	"github.com/book-expert/slideshow-service/internal/timeline"
	"github.com/book-expert/slideshow-service/internal/worker"
)

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "slideshow-service.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	// Bootstrap logger for the configuration load; the final logger lives
	// wherever the configuration points.
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	return runService(cfg, finalLog)
}

func runService(cfg *config.Config, log *logger.Logger) error {
	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	store, err := objectstore.New(jetstreamContext, cfg.NATS.MediaObjectStoreBucket)
	if err != nil {
		return fmt.Errorf("failed to initialize media store: %w", err)
	}

	natsWorker, err := buildWorker(cfg, log, natsConnection, jetstreamContext, store)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.System(
		"Slideshow-Service successfully initialized. Listening for jobs on subject: %s",
		cfg.NATS.SlideshowRequestedSubject,
	)

	err = natsWorker.Run(ctx)
	if err != nil {
		return fmt.Errorf("worker terminated: %w", err)
	}

	return nil
}

func buildWorker(
	cfg *config.Config,
	log *logger.Logger,
	natsConnection *nats.Conn,
	jetstreamContext nats.JetStreamContext,
	store *objectstore.NatsMediaStore,
) (*worker.NatsWorker, error) {
	ffmpegRunner := ffmpegcmd.NewRunner(cfg.Engines.FFmpegBinary, log)
	prober := ffprobe.New(cfg.Engines.FFprobeBinary)

	speechTimeout := time.Duration(cfg.Engines.SpeechTimeoutSeconds) * time.Second
	synthesizer := synth.NewEngine(cfg.Engines.SpeechServiceURL, speechTimeout, log)

	transformer := timeline.NewTransformer(ffmpegRunner, cfg.Pipeline.SampleRate, log)
	audioTimeline := timeline.NewAudioTimeline(synthesizer, transformer, prober, log)

	resizer := render.NewFFmpegResizer(ffmpegRunner, cfg.Pipeline.FillColor)
	renderer := render.NewRenderer(resizer, cfg.Pipeline.RenderWorkers, log)

	assembler := assemble.NewInvoker(ffmpegRunner, cfg.Pipeline.FrameRate, log)

	assemblyPipeline := pipeline.New(
		audioTimeline, renderer, assembler,
		cfg.Pipeline.SlideFloorSeconds, log,
	)

	defaults := worker.JobDefaults{
		Voice:        cfg.Pipeline.Voice,
		Locale:       cfg.Pipeline.Locale,
		SpeechRate:   cfg.Pipeline.SpeechRate,
		LeadInMS:     cfg.Pipeline.LeadInMS,
		CanvasWidth:  cfg.Pipeline.CanvasWidth,
		CanvasHeight: cfg.Pipeline.CanvasHeight,
	}

	natsWorker, err := worker.NewNatsWorker(
		natsConnection, jetstreamContext, cfg.NATS.SlideshowRequestedSubject,
		store, assemblyPipeline, cfg.Paths.WorkspaceRoot, defaults, log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}

	return natsWorker, nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
