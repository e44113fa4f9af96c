package params

import "errors"

// Error definitions for the params package.
var (
	ErrTextRequired          = errors.New("text is required")
	ErrTextTooLong           = errors.New("text exceeds maximum length")
	ErrInvalidVoice          = errors.New("voice is not valid for the selected language")
	ErrInvalidResponseFormat = errors.New("unsupported response format")
	ErrInvalidModel          = errors.New("unsupported model")
	ErrSpeedOutOfRange       = errors.New("speed is out of range")
)
