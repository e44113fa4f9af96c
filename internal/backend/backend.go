package backend

import (
	"context"
	"time"
)

// BackendProvider is a string identifier for a backend provider.
type BackendProvider string

const (
	// BackendProviderHTTP posts the request to the speech endpoint with net/http.
	BackendProviderHTTP BackendProvider = "http"

	// BackendProviderOpenAI goes through the go-openai client.
	BackendProviderOpenAI BackendProvider = "openai"
)

// SpeechPath is the endpoint path requests are posted to, relative to the base URL.
const SpeechPath = "/v1/audio/speech"

// Backend performs one speech synthesis call against a remote endpoint.
type Backend interface {
	// Provider returns the backend identifier.
	Provider() BackendProvider

	// Synthesize sends the request and returns the complete audio payload.
	Synthesize(ctx context.Context, req *Request) (*Response, error)

	// Close cleans up resources.
	Close() error
}

// Config locates the remote endpoint.
type Config struct {
	// URL is the endpoint base URL, without the /v1/audio/speech suffix.
	URL string

	// APIKey is sent as an opaque bearer token.
	APIKey string

	// Options holds provider-specific settings.
	Options map[string]any
}

// Response contains the result of a synthesis call.
type Response struct {
	// Audio is the raw response body.
	Audio []byte

	// ContentType is the MIME type reported by the endpoint, if any.
	ContentType string

	// Metadata contains information about the call.
	Metadata *ResponseMetadata
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	Provider    BackendProvider `json:"provider"`
	Model       string          `json:"model"`
	Timestamp   time.Time       `json:"timestamp"`
	Latency     time.Duration   `json:"latency"`
	StatusCode  int             `json:"status_code"`
	OutputBytes int64           `json:"output_bytes"`
}
