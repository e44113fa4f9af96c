package speechapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/ttsform/internal/backend"
)

func testRequest() *backend.Request {
	return &backend.Request{
		Input:          "Hello world",
		Voice:          "nova",
		ResponseFormat: "wav",
		Model:          "tts-1-hd",
		Speed:          1.5,
	}
}

func TestBackend_Synthesize(t *testing.T) {
	audio := []byte("RIFF\x24\x00\x00\x00WAVEfmt ")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{
			"input":           "Hello world",
			"voice":           "nova",
			"response_format": "wav",
			"model":           "tts-1-hd",
			"speed":           1.5,
		}, body)

		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(audio)
	}))
	defer srv.Close()

	b, err := NewBackend(backend.Config{URL: srv.URL + "/", APIKey: "secret-token"})
	require.NoError(t, err)
	defer b.Close()

	resp, err := b.Synthesize(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, audio, resp.Audio)
	assert.Equal(t, "audio/wav", resp.ContentType)
	assert.Equal(t, backend.BackendProviderHTTP, resp.Metadata.Provider)
	assert.Equal(t, http.StatusOK, resp.Metadata.StatusCode)
	assert.EqualValues(t, len(audio), resp.Metadata.OutputBytes)
}

func TestBackend_SynthesizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	b, err := NewBackend(backend.Config{URL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	resp, err := b.Synthesize(context.Background(), testRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, backend.ErrServer)
	assert.Equal(t, http.StatusInternalServerError, backend.StatusCode(err))
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestBackend_SynthesizeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	b, err := NewBackend(backend.Config{URL: url, APIKey: "k"})
	require.NoError(t, err)

	_, err = b.Synthesize(context.Background(), testRequest())

	assert.ErrorIs(t, err, backend.ErrTransport)
	assert.Equal(t, 0, backend.StatusCode(err))
}

func TestBackend_SynthesizeTruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		_, _ = w.Write([]byte("short"))
	}))
	defer srv.Close()

	b, err := NewBackend(backend.Config{URL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = b.Synthesize(context.Background(), testRequest())

	assert.ErrorIs(t, err, backend.ErrTransport)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestBackend_Options(t *testing.T) {
	var gotPath, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("mp3"))
	}))
	defer srv.Close()

	b, err := NewBackend(backend.Config{
		URL:    srv.URL,
		APIKey: "k",
		Options: map[string]any{
			"speech_path":         "/custom/speech",
			"user_agent":          "form-test",
			"max_idle_conns":      4,
			"disable_keep_alives": true,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/custom/speech", b.URL())

	_, err = b.Synthesize(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "/custom/speech", gotPath)
	assert.Equal(t, "form-test", gotAgent)
}

func TestNewBackend_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:5050", "ftp://host", "http://"} {
		_, err := NewBackend(backend.Config{URL: raw})
		assert.Error(t, err, raw)
	}
}

func TestBackend_RequestConstructionError(t *testing.T) {
	b, err := NewBackend(backend.Config{URL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	//nolint:staticcheck // a nil context is the construction failure under test
	_, err = b.Synthesize(nil, testRequest())

	assert.ErrorIs(t, err, backend.ErrRequestConstruction)
}
