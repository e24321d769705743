// Package synth wraps the external speech-synthesis service behind the
// core.Synthesizer contract. Failures are surfaced verbatim as synthesis
// errors and never retried here.
package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// API endpoints and paths.
const (
	apiGenerateSpeech = "/v1/generate/speech"
	apiHealth         = "/health"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	contentTypeJSON   = "application/json"
	contentTypeWAV    = "audio/wav"
)

// Default values.
const (
	defaultLocale = "en"
)

// Static errors.
var (
	// ErrEmptyText indicates an empty synthesis request.
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrEmptyAudio indicates that the service returned no audio data.
	ErrEmptyAudio = errors.New("received empty audio data")
)

// HTTPClient is a client for the standalone speech-synthesis HTTP service.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

// speechPayload is the JSON body of a synthesis request, following the
// service's API contract.
type speechPayload struct {
	// Text is the narration to synthesize. Must be non-empty.
	Text string `json:"text"`

	// Voice selects one of the service's enumerated voices; the service
	// rejects unknown values.
	Voice string `json:"voice,omitempty"`

	// Language is the target locale code (e.g. "en", "es").
	Language string `json:"language"`
}

// errorResponse is the structured error body the service emits on failure.
type errorResponse struct {
	// Detail contains a human-readable error description.
	Detail string `json:"detail"`

	// ErrorCode provides a machine-readable error classification.
	ErrorCode string `json:"error_code,omitempty"`
}

// NewHTTPClient creates and configures a client for the speech service. The
// baseURL should include the protocol and port (e.g. "http://localhost:8000");
// the timeout applies to every request made by this client.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Synthesize sends one generation request and returns the raw WAV bytes. The
// caller is responsible for writing them into the request workspace.
func (c *HTTPClient) Synthesize(ctx context.Context, text, voice, locale string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	if locale == "" {
		locale = defaultLocale
	}

	requestBody, err := json.Marshal(speechPayload{
		Text:     text,
		Voice:    voice,
		Language: locale,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + apiGenerateSpeech

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, contentTypeWAV)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to send request to speech service at %s: %w",
			c.baseURL,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	contentType := resp.Header.Get(headerContentType)
	if contentType != contentTypeWAV {
		return nil, fmt.Errorf(
			"unexpected content type: expected %s, got %s",
			contentTypeWAV, contentType,
		)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	if len(audioData) == 0 {
		return nil, ErrEmptyAudio
	}

	return audioData, nil
}

// HealthCheck verifies that the speech service is running and operational.
// Performed before processing a job to fail fast with clear diagnostics.
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	url := c.baseURL + apiHealth

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf(
			"health check failed for service at %s: %w",
			c.baseURL,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %s", resp.Status)
	}

	return nil
}

// parseErrorResponse attempts to decode a structured JSON error from the
// service, falling back to the raw body so diagnostics are preserved.
func (c *HTTPClient) parseErrorResponse(resp *http.Response) error {
	var errorResp errorResponse

	err := json.NewDecoder(resp.Body).Decode(&errorResp)
	if err == nil {
		return fmt.Errorf("speech service error (%s): %s (code: %s)",
			resp.Status, errorResp.Detail, errorResp.ErrorCode)
	}

	body, _ := io.ReadAll(resp.Body)

	return fmt.Errorf(
		"speech service returned non-OK status: %s, body: %s",
		resp.Status,
		string(body),
	)
}
