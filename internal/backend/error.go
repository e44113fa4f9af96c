package backend

import (
	"errors"
	"fmt"
)

// Error definitions for the backend package.
var (
	ErrNotFound          = errors.New("backend not found in registry")
	ErrAlreadyRegistered = errors.New("backend is already registered in the registry")
	ErrUnknownProvider   = errors.New("unknown backend provider")

	// ErrRequestConstruction marks a payload that could not be built before sending.
	ErrRequestConstruction = errors.New("request construction failed")

	// ErrTransport marks a network level failure: unreachable host, reset, timeout, short body.
	ErrTransport = errors.New("transport failure")

	// ErrServer marks a non-success HTTP status returned by the endpoint.
	ErrServer = errors.New("endpoint returned a non-success status")
)

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// Is makes StatusError match ErrServer.
func (e *StatusError) Is(target error) bool {
	return target == ErrServer
}

// StatusCode extracts the HTTP status from err, or 0 when err carries none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
