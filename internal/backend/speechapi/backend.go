package speechapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ekisa-team/ttsform/internal/backend"
	"github.com/ekisa-team/ttsform/internal/mapsafe"
)

// maxErrorBody bounds how much of a failed response is kept for the log.
const maxErrorBody = 512

// Backend implements backend.Backend by posting JSON to an OpenAI-compatible
// /v1/audio/speech endpoint.
type Backend struct {
	client    *http.Client
	url       string
	apiKey    string
	userAgent string
}

// Option configures the backend.
type Option func(*Backend)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(b *Backend) {
		b.client = c
	}
}

// NewBackend creates a backend for cfg.
//
// Recognized options: speech_path (string), user_agent (string),
// max_idle_conns (int), disable_keep_alives (bool).
func NewBackend(cfg backend.Config, opts ...Option) (*Backend, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("speechapi: invalid endpoint url %q", cfg.URL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if n := mapsafe.Get(cfg.Options, "max_idle_conns", 0); n > 0 {
		transport.MaxIdleConns = n
	}
	transport.DisableKeepAlives = mapsafe.Get(cfg.Options, "disable_keep_alives", false)

	b := &Backend{
		// No client timeout: the transport defaults are the only limits.
		client:    &http.Client{Transport: transport},
		url:       base + mapsafe.Get(cfg.Options, "speech_path", backend.SpeechPath),
		apiKey:    cfg.APIKey,
		userAgent: mapsafe.Get(cfg.Options, "user_agent", "ttsform"),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// Provider returns the backend identifier.
func (b *Backend) Provider() backend.BackendProvider {
	return backend.BackendProviderHTTP
}

// URL returns the full speech endpoint URL.
func (b *Backend) URL() string {
	return b.url
}

// Synthesize posts the request and reads the whole audio body.
func (b *Backend) Synthesize(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	body, err := req.Body()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrRequestConstruction, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	httpReq.Header.Set("User-Agent", b.userAgent)

	start := time.Now()
	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &backend.StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio: %w", backend.ErrTransport, err)
	}

	return &backend.Response{
		Audio:       audio,
		ContentType: resp.Header.Get("Content-Type"),
		Metadata: &backend.ResponseMetadata{
			Provider:    b.Provider(),
			Model:       req.Model,
			Timestamp:   time.Now(),
			Latency:     time.Since(start),
			StatusCode:  resp.StatusCode,
			OutputBytes: int64(len(audio)),
		},
	}, nil
}

// Close releases idle connections.
func (b *Backend) Close() error {
	b.client.CloseIdleConnections()
	return nil
}
