package audio

import "errors"

// Error definitions for the audio package.
var (
	ErrNotFound = errors.New("audio locator is unknown or has been released")
	ErrClosed   = errors.New("audio store is closed")
	ErrTooLarge = errors.New("audio payload exceeds the configured limit")
	ErrEmpty    = errors.New("audio payload is empty")
)
