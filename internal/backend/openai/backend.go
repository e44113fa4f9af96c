package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/ekisa-team/ttsform/internal/backend"
	"github.com/ekisa-team/ttsform/internal/mapsafe"
)

// Backend implements backend.Backend on top of the go-openai client.
type Backend struct {
	client *goopenai.Client
}

// Option configures the client before it is built.
type Option func(*goopenai.ClientConfig)

// WithHTTPClient replaces the HTTP client used by go-openai.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *goopenai.ClientConfig) {
		cfg.HTTPClient = c
	}
}

// NewBackend creates a backend for cfg. The base URL gets the /v1 suffix go-openai
// expects, so requests land on <url>/v1/audio/speech.
//
// Recognized options: organization (string).
func NewBackend(cfg backend.Config, opts ...Option) (*Backend, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("openai: invalid endpoint url %q", cfg.URL)
	}

	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = base + "/v1"
	clientConfig.OrgID = mapsafe.Get(cfg.Options, "organization", "")
	for _, opt := range opts {
		opt(&clientConfig)
	}

	return &Backend{client: goopenai.NewClientWithConfig(clientConfig)}, nil
}

// Provider returns the backend identifier.
func (b *Backend) Provider() backend.BackendProvider {
	return backend.BackendProviderOpenAI
}

// Synthesize calls CreateSpeech and reads the whole audio body.
func (b *Backend) Synthesize(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	start := time.Now()

	raw, err := b.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(req.Model),
		Input:          req.Input,
		Voice:          goopenai.SpeechVoice(req.Voice),
		ResponseFormat: goopenai.SpeechResponseFormat(req.ResponseFormat),
		Speed:          req.Speed,
	})
	if err != nil {
		return nil, classify(err)
	}
	defer raw.Close()

	audio, err := io.ReadAll(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio: %w", backend.ErrTransport, err)
	}

	return &backend.Response{
		Audio:       audio,
		ContentType: raw.Header().Get("Content-Type"),
		Metadata: &backend.ResponseMetadata{
			Provider:    b.Provider(),
			Model:       req.Model,
			Timestamp:   time.Now(),
			Latency:     time.Since(start),
			StatusCode:  http.StatusOK,
			OutputBytes: int64(len(audio)),
		},
	}, nil
}

// Close is a no-op; go-openai holds no resources of its own.
func (b *Backend) Close() error {
	return nil
}

// classify maps go-openai errors onto the backend taxonomy.
func classify(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &backend.StatusError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &backend.StatusError{
			StatusCode: reqErr.HTTPStatusCode,
			Body:       strings.TrimSpace(string(reqErr.Body)),
		}
	}

	return fmt.Errorf("%w: %w", backend.ErrTransport, err)
}
