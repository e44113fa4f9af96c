package backend

import (
	"encoding/json"
	"fmt"

	"github.com/ekisa-team/ttsform/internal/params"
)

// Request is the JSON payload posted to the speech endpoint. It is built once per
// submission and not modified afterwards.
type Request struct {
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Model          string  `json:"model"`
	Speed          float64 `json:"speed"`
}

// NewRequest maps form parameters 1:1 onto the wire payload. Only the text bound is
// checked; the remaining fields are trusted as the parameter store holds them.
func NewRequest(p params.Parameters) (*Request, error) {
	if err := params.CheckText(p.Text); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestConstruction, err)
	}

	return &Request{
		Input:          p.Text,
		Voice:          p.Voice,
		ResponseFormat: string(p.ResponseFormat),
		Model:          string(p.Model),
		Speed:          p.Speed,
	}, nil
}

// Body serializes the request.
func (r *Request) Body() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", ErrRequestConstruction, err)
	}
	return data, nil
}

// Format returns the requested response format.
func (r *Request) Format() params.ResponseFormat {
	return params.ResponseFormat(r.ResponseFormat)
}
