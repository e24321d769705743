// Package worker provides a NATS worker that processes slideshow assembly jobs.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/slideshow-service/internal/core"
	"github.com/book-expert/slideshow-service/internal/pipeline"
	"github.com/book-expert/slideshow-service/internal/workspace"
)

// Encoding a long slideshow takes minutes, not seconds.
const handleMessageTimeout = 10 * time.Minute

const (
	outputFileName       = "slideshow.mp4"
	inputFilePermissions = 0o600
)

var (
	// ErrNarrationKeyEmpty indicates the event carries no narration object key.
	ErrNarrationKeyEmpty = errors.New("narration key cannot be empty")
	// ErrNoImageKeys indicates the event carries no image object keys.
	ErrNoImageKeys = errors.New("image keys cannot be empty")
)

// JobDefaults fills event fields the requester left at their zero values.
type JobDefaults struct {
	Voice        string
	Locale       string
	SpeechRate   float64
	LeadInMS     int
	CanvasWidth  int
	CanvasHeight int
}

// PipelineRunner executes one assembly job inside a workspace.
type PipelineRunner interface {
	Run(ctx context.Context, ws *workspace.Workspace, request core.PipelineRequest) (pipeline.Result, error)
}

// NatsWorker listens for slideshow jobs on a NATS subject and processes them.
type NatsWorker struct {
	natsConnection   *nats.Conn
	jetstreamContext nats.JetStreamContext
	subject          string
	store            core.ObjectStore
	pipeline         PipelineRunner
	workspaceRoot    string
	defaults         JobDefaults
	log              *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	jetstreamContext nats.JetStreamContext,
	subject string,
	store core.ObjectStore,
	pipelineRunner PipelineRunner,
	workspaceRoot string,
	defaults JobDefaults,
	log *logger.Logger,
) (*NatsWorker, error) {
	return &NatsWorker{
		natsConnection:   natsConnection,
		jetstreamContext: jetstreamContext,
		subject:          subject,
		store:            store,
		pipeline:         pipelineRunner,
		workspaceRoot:    workspaceRoot,
		defaults:         defaults,
		log:              log,
	}, nil
}

// Run starts the worker and begins listening for messages.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	event, err := w.parseAndValidateEvent(msg)
	if err != nil {
		w.log.Error("Failed to parse and validate event: %v", err)

		return
	}

	result, videoKey, processErr := w.processJob(ctx, event)
	if processErr != nil {
		w.log.Error("Failed to process slideshow job for workflow %s: %v", event.Header.WorkflowID, processErr)

		return
	}

	replyEvent := &VideoCreatedEvent{
		Header:          event.Header,
		VideoKey:        videoKey,
		DurationSeconds: result.AudioDurationSeconds,
		FrameCount:      result.FrameCount,
	}

	err = w.publishReplyEvent(msg, replyEvent)
	if err != nil {
		w.log.Error("Failed to publish reply event for workflow %s: %v", event.Header.WorkflowID, err)
	}
}

// processJob downloads the job inputs, runs the assembly pipeline, and uploads
// the encoded video. The workspace is torn down regardless of outcome.
func (w *NatsWorker) processJob(
	ctx context.Context,
	event *SlideshowRequestedEvent,
) (pipeline.Result, string, error) {
	ws, err := workspace.New(w.workspaceRoot, w.log)
	if err != nil {
		return pipeline.Result{}, "", err
	}
	defer ws.Cleanup()

	request, err := w.stageInputs(ctx, ws, event)
	if err != nil {
		return pipeline.Result{}, "", err
	}

	result, err := w.pipeline.Run(ctx, ws, request)
	if err != nil {
		return pipeline.Result{}, "", fmt.Errorf("assembly failed: %w", err)
	}

	videoKey := uuid.NewString() + ".mp4"

	uploadErr := w.uploadVideo(ctx, videoKey, result.VideoPath)
	if uploadErr != nil {
		return pipeline.Result{}, "", uploadErr
	}

	return result, videoKey, nil
}

// stageInputs downloads every referenced object into the workspace and builds
// the validated pipeline request. ImageKeys order becomes the input positions.
func (w *NatsWorker) stageInputs(
	ctx context.Context,
	ws *workspace.Workspace,
	event *SlideshowRequestedEvent,
) (core.PipelineRequest, error) {
	textData, err := w.store.Download(ctx, event.NarrationKey)
	if err != nil {
		return core.PipelineRequest{}, fmt.Errorf(
			"failed to download narration for key '%s': %w", event.NarrationKey, err,
		)
	}

	images := make([]core.ImageReference, 0, len(event.ImageKeys))

	for position, imageKey := range event.ImageKeys {
		imageData, downloadErr := w.store.Download(ctx, imageKey)
		if downloadErr != nil {
			return core.PipelineRequest{}, fmt.Errorf(
				"failed to download image for key '%s': %w", imageKey, downloadErr,
			)
		}

		imagePath := ws.InputPath(filepath.Base(imageKey))

		writeErr := writeInput(imagePath, imageData)
		if writeErr != nil {
			return core.PipelineRequest{}, writeErr
		}

		images = append(images, core.ImageReference{Path: imagePath, Position: position})
	}

	musicPath := ""

	if event.BackgroundMusicKey != "" {
		musicData, downloadErr := w.store.Download(ctx, event.BackgroundMusicKey)
		if downloadErr != nil {
			return core.PipelineRequest{}, fmt.Errorf(
				"failed to download background music for key '%s': %w",
				event.BackgroundMusicKey, downloadErr,
			)
		}

		musicPath = ws.InputPath(filepath.Base(event.BackgroundMusicKey))

		writeErr := writeInput(musicPath, musicData)
		if writeErr != nil {
			return core.PipelineRequest{}, writeErr
		}
	}

	return w.buildRequest(ws, event, string(textData), images, musicPath), nil
}

func (w *NatsWorker) buildRequest(
	ws *workspace.Workspace,
	event *SlideshowRequestedEvent,
	narrationText string,
	images []core.ImageReference,
	musicPath string,
) core.PipelineRequest {
	request := core.PipelineRequest{
		NarrationText:       narrationText,
		Voice:               event.Voice,
		Locale:              event.Locale,
		CanvasWidth:         event.CanvasWidth,
		CanvasHeight:        event.CanvasHeight,
		Images:              images,
		BackgroundMusicPath: musicPath,
		MusicVolume:         event.MusicVolume,
		SpeechRate:          event.SpeechRate,
		LeadInMS:            event.LeadInMS,
		OutputPath:          ws.OutputPath(outputFileName),
	}

	if request.Voice == "" {
		request.Voice = w.defaults.Voice
	}

	if request.Locale == "" {
		request.Locale = w.defaults.Locale
	}

	if request.SpeechRate == 0 {
		request.SpeechRate = w.defaults.SpeechRate
	}

	if request.LeadInMS == 0 {
		request.LeadInMS = w.defaults.LeadInMS
	}

	if request.CanvasWidth == 0 {
		request.CanvasWidth = w.defaults.CanvasWidth
	}

	if request.CanvasHeight == 0 {
		request.CanvasHeight = w.defaults.CanvasHeight
	}

	return request
}

func (w *NatsWorker) uploadVideo(ctx context.Context, videoKey, videoPath string) error {
	videoData, err := os.ReadFile(videoPath)
	if err != nil {
		return fmt.Errorf("failed to read encoded video '%s': %w", videoPath, err)
	}

	err = w.store.Upload(ctx, videoKey, videoData)
	if err != nil {
		return fmt.Errorf("failed to upload video for key '%s': %w", videoKey, err)
	}

	return nil
}

// publishReplyEvent marshals and responds with the VideoCreatedEvent.
func (w *NatsWorker) publishReplyEvent(msg *nats.Msg, replyEvent *VideoCreatedEvent) error {
	replyData, err := json.Marshal(replyEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal reply event: %w", err)
	}

	err = msg.Respond(replyData)
	if err != nil {
		return fmt.Errorf("failed to publish reply event: %w", err)
	}

	return nil
}

func writeInput(path string, data []byte) error {
	err := os.WriteFile(path, data, inputFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to stage input '%s': %w", path, err)
	}

	return nil
}

func (w *NatsWorker) parseAndValidateEvent(msg *nats.Msg) (*SlideshowRequestedEvent, error) {
	var event SlideshowRequestedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.NarrationKey == "" {
		return nil, ErrNarrationKeyEmpty
	}

	if len(event.ImageKeys) == 0 {
		return nil, ErrNoImageKeys
	}

	return &event, nil
}
