package env

import (
	"os"
	"strings"

	"github.com/ekisa-team/ttsform/internal/envvar"
)

// Environment is the runtime environment the process runs in.
type Environment string

const (
	// Development enables human-friendly console output and debug logs.
	Development Environment = "development"

	// Production enables structured JSON logs.
	Production Environment = "production"
)

// FromEnv reads the environment from TTSFORM_ENV, defaulting to development.
func FromEnv() Environment {
	return Parse(os.Getenv(envvar.TTSFormEnv))
}

// Parse converts a raw value into an Environment. Unknown values map to development.
func Parse(value string) Environment {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "prod", "production":
		return Production
	default:
		return Development
	}
}

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool {
	return e == Production
}
