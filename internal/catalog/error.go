package catalog

import "errors"

// Error definitions for the catalog package.
var (
	ErrLanguageNotFound  = errors.New("language not found in catalog")
	ErrNoVoices          = errors.New("voice set must not be empty")
	ErrDuplicateLanguage = errors.New("language is already defined in catalog")
	ErrDuplicateVoice    = errors.New("voice is listed more than once")
)
