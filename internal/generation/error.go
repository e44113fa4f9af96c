package generation

import (
	"errors"
	"fmt"

	"github.com/ekisa-team/ttsform/internal/audio"
	"github.com/ekisa-team/ttsform/internal/backend"
)

// ErrClosed is returned for submissions made after the controller was torn down.
var ErrClosed = errors.New("generation controller is closed")

// Kind classifies why a generation failed.
type Kind string

const (
	// KindRequestConstruction covers payloads that could not be built before sending.
	KindRequestConstruction Kind = "request_construction"

	// KindTransport covers network failures and unreadable bodies.
	KindTransport Kind = "transport"

	// KindServer covers non-2xx answers from the endpoint.
	KindServer Kind = "server"

	// KindResource covers failures to turn the payload into a playable locator.
	KindResource Kind = "resource"
)

// Failure is the reason attached to a failed result.
type Failure struct {
	Err        error
	Kind       Kind
	StatusCode int
}

func (f *Failure) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("generation failed (%s, status %d): %v", f.Kind, f.StatusCode, f.Err)
	}
	return fmt.Sprintf("generation failed (%s): %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// classify maps a backend error onto a failure kind.
func classify(err error) *Failure {
	switch {
	case errors.Is(err, backend.ErrRequestConstruction):
		return &Failure{Kind: KindRequestConstruction, Err: err}
	case errors.Is(err, backend.ErrServer):
		return &Failure{Kind: KindServer, StatusCode: backend.StatusCode(err), Err: err}
	case errors.Is(err, audio.ErrEmpty), errors.Is(err, audio.ErrTooLarge), errors.Is(err, audio.ErrClosed):
		return &Failure{Kind: KindResource, Err: err}
	default:
		return &Failure{Kind: KindTransport, Err: err}
	}
}
