// Package synth_test tests the speech service client and engine.
package synth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/slideshow-service/internal/synth"
)

func newSpeechServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server
}

func TestSynthesizeReturnsAudio(t *testing.T) {
	t.Parallel()

	wantAudio := []byte("RIFFfake-wav-data")

	server := newSpeechServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/generate/speech", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any

		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Hello there.", payload["text"])
		assert.Equal(t, "narrator-1", payload["voice"])
		assert.Equal(t, "en", payload["language"])

		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(wantAudio)
	})

	client := synth.NewHTTPClient(server.URL, 5*time.Second)

	audio, err := client.Synthesize(context.Background(), "Hello there.", "narrator-1", "en")
	require.NoError(t, err)
	assert.Equal(t, wantAudio, audio)
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	t.Parallel()

	client := synth.NewHTTPClient("http://127.0.0.1:1", time.Second)

	_, err := client.Synthesize(context.Background(), "", "narrator-1", "en")
	require.ErrorIs(t, err, synth.ErrEmptyText)
}

func TestSynthesizeDefaultsLocale(t *testing.T) {
	t.Parallel()

	server := newSpeechServer(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any

		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "en", payload["language"])

		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write([]byte("audio"))
	})

	client := synth.NewHTTPClient(server.URL, 5*time.Second)

	_, err := client.Synthesize(context.Background(), "Hello.", "", "")
	require.NoError(t, err)
}

func TestSynthesizeDecodesStructuredError(t *testing.T) {
	t.Parallel()

	server := newSpeechServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"unsupported voice","error_code":"VOICE_UNKNOWN"}`))
	})

	client := synth.NewHTTPClient(server.URL, 5*time.Second)

	_, err := client.Synthesize(context.Background(), "Hello.", "bogus-voice", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported voice")
	assert.Contains(t, err.Error(), "VOICE_UNKNOWN")
}

func TestSynthesizeRejectsUnexpectedContentType(t *testing.T) {
	t.Parallel()

	server := newSpeechServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("not audio"))
	})

	client := synth.NewHTTPClient(server.URL, 5*time.Second)

	_, err := client.Synthesize(context.Background(), "Hello.", "narrator-1", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected content type")
}

func TestSynthesizeRejectsEmptyAudio(t *testing.T) {
	t.Parallel()

	server := newSpeechServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "audio/wav")
	})

	client := synth.NewHTTPClient(server.URL, 5*time.Second)

	_, err := client.Synthesize(context.Background(), "Hello.", "narrator-1", "en")
	require.ErrorIs(t, err, synth.ErrEmptyAudio)
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	healthy := newSpeechServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	client := synth.NewHTTPClient(healthy.URL, 5*time.Second)
	require.NoError(t, client.HealthCheck(context.Background()))

	unhealthy := newSpeechServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client = synth.NewHTTPClient(unhealthy.URL, 5*time.Second)
	require.Error(t, client.HealthCheck(context.Background()))
}
