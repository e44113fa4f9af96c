package service

import "errors"

// Error definitions for the service package.
var (
	ErrNotLoaded = errors.New("no speech backend loaded")
)
